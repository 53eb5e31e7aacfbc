// Package pamtest helps tests build PAM argument lists and check parse
// errors.
package pamtest

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/go-pamargs/pamargs"
)

// ArgsConfig controls how ArgsBuilder renders arguments.
type ArgsConfig struct {
	// UseBrackets wraps every key/value in a bracket group.
	UseBrackets bool
	// UseQuotes quotes values containing a space.
	UseQuotes bool
	QuoteChar rune
	// IncludeText appends the text added with Text.
	IncludeText bool
	// Shuffle reorders the result with a generator seeded by Seed.
	Shuffle bool
	Seed    int64
}

// DefaultArgsConfig quotes with double quotes and adds nothing else.
func DefaultArgsConfig() ArgsConfig {
	return ArgsConfig{UseQuotes: true, QuoteChar: '"'}
}

type pair struct{ key, value string }

// ArgsBuilder assembles an argument list.
type ArgsBuilder struct {
	cfg   ArgsConfig
	flags []string
	pairs []pair
	text  []string
}

// NewArgs creates a builder with DefaultArgsConfig.
func NewArgs() *ArgsBuilder {
	return &ArgsBuilder{cfg: DefaultArgsConfig()}
}

// NewArgsWithConfig creates a builder with cfg.
func NewArgsWithConfig(cfg ArgsConfig) *ArgsBuilder {
	return &ArgsBuilder{cfg: cfg}
}

// Config replaces the rendering configuration.
func (b *ArgsBuilder) Config(cfg ArgsConfig) *ArgsBuilder {
	b.cfg = cfg
	return b
}

func (b *ArgsBuilder) Flag(names ...string) *ArgsBuilder {
	b.flags = append(b.flags, names...)
	return b
}

func (b *ArgsBuilder) KeyValue(key, value string) *ArgsBuilder {
	b.pairs = append(b.pairs, pair{key, value})
	return b
}

// Text adds free text, emitted only when IncludeText is set.
func (b *ArgsBuilder) Text(text ...string) *ArgsBuilder {
	b.text = append(b.text, text...)
	return b
}

// Build renders flags, then key/values, then text.
func (b *ArgsBuilder) Build() []string {
	out := make([]string, 0, len(b.flags)+len(b.pairs)+len(b.text))
	out = append(out, b.flags...)
	for _, p := range b.pairs {
		value := p.value
		if b.cfg.UseQuotes && strings.Contains(value, " ") {
			q := string(b.cfg.QuoteChar)
			value = q + value + q
		}
		arg := p.key + "=" + value
		if b.cfg.UseBrackets {
			arg = "[" + arg + "]"
		}
		out = append(out, arg)
	}
	if b.cfg.IncludeText {
		out = append(out, b.text...)
	}
	if b.cfg.Shuffle && len(out) > 1 {
		rng := rand.New(rand.NewSource(b.cfg.Seed)) //nolint:gosec // test data
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// ErrorSimulator returns argument lists that provoke a given error from a
// parser declared accordingly.
type ErrorSimulator struct {
	cfg ArgsConfig
}

func NewErrorSimulator() *ErrorSimulator {
	return &ErrorSimulator{cfg: DefaultArgsConfig()}
}

// RequiredArgMissing returns no arguments at all.
func (s *ErrorSimulator) RequiredArgMissing(string) []string { return []string{} }

func (s *ErrorSimulator) MutuallyExclusive(a, b string) []string { return []string{a, b} }

// DependencyNotMet returns arg without its dependency.
func (s *ErrorSimulator) DependencyNotMet(arg, _ string) []string { return []string{arg} }

func (s *ErrorSimulator) InvalidValue(key, value string) []string {
	return NewArgsWithConfig(s.cfg).KeyValue(key, value).Build()
}

func (s *ErrorSimulator) InvalidKeyValue(token string) []string { return []string{token} }

func (s *ErrorSimulator) UnrecognizedArg(token string) []string { return []string{token} }

func (s *ErrorSimulator) InvalidInt(key string) []string {
	return []string{key + "=not_an_integer"}
}

func (s *ErrorSimulator) InvalidBool(key string) []string {
	return []string{key + "=not_a_boolean"}
}

// JoinArgString renders a PAM configuration line: module followed by args.
func JoinArgString(module string, args ...string) string {
	return module + " " + strings.Join(args, " ")
}

// SplitArgString splits a line on spaces outside double quotes. The quotes
// stay in the fields, as a PAM stack passes them through.
func SplitArgString(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ' ' && !inQuotes:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// RequireErrorType fails t unless err is a *pamargs.ParseError of typ and
// returns it.
func RequireErrorType(t testing.TB, err error, typ pamargs.ErrorType) *pamargs.ParseError {
	t.Helper()
	require.Error(t, err)
	var pe *pamargs.ParseError
	require.True(t, errors.As(err, &pe), "expected *pamargs.ParseError, got %T: %v", err, err)
	require.Equal(t, typ, pe.Type, "unexpected error: %v", err)
	return pe
}

func RequireRequiredArgMissing(t testing.TB, err error, name string) {
	t.Helper()
	pe := RequireErrorType(t, err, pamargs.ErrorTypeRequiredArgMissing)
	require.Equal(t, name, pe.Name)
}

// RequireMutuallyExclusive accepts the pair in either order.
func RequireMutuallyExclusive(t testing.TB, err error, a, b string) {
	t.Helper()
	pe := RequireErrorType(t, err, pamargs.ErrorTypeMutuallyExclusiveArgs)
	ok := (pe.Name == a && pe.Other == b) || (pe.Name == b && pe.Other == a)
	require.True(t, ok, "expected %s and %s, got %s and %s", a, b, pe.Name, pe.Other)
}

func RequireDependencyNotMet(t testing.TB, err error, name, dependency string) {
	t.Helper()
	pe := RequireErrorType(t, err, pamargs.ErrorTypeDependencyNotMet)
	require.Equal(t, name, pe.Name)
	require.Equal(t, dependency, pe.Other)
}

func RequireInvalidValue(t testing.TB, err error, name, value string) {
	t.Helper()
	pe := RequireErrorType(t, err, pamargs.ErrorTypeInvalidValue)
	require.Equal(t, name, pe.Name)
	require.Equal(t, value, pe.Value)
}
