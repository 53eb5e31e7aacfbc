package pamargs

import (
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-pamargs/internal/pool"
)

// lexState is the character-level tokenizer state.
type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateEscape
)

func (s lexState) String() string {
	switch s {
	case stateNormal:
		return "Normal"
	case stateSingleQuote:
		return "InSingleQuote"
	case stateDoubleQuote:
		return "InDoubleQuote"
	case stateEscape:
		return "EscapeSequence"
	default:
		return "Unknown"
	}
}

// scanner drives the four-state machine shared by the tokenizer and the
// bracket splitter.
type scanner struct {
	cfg    *Config
	state  lexState
	resume lexState // state to return to after an escape
}

// next consumes r and reports whether it was a bare character: seen in
// Normal state, not escaped, and not itself a quote or escape.
func (s *scanner) next(r rune) bool {
	if s.state == stateEscape {
		s.state = s.resume
		return false
	}
	if r == s.cfg.Escape {
		s.resume = s.state
		s.state = stateEscape
		return false
	}
	switch s.state {
	case stateSingleQuote:
		if r == s.cfg.SingleQuote {
			s.state = stateNormal
		}
		return false
	case stateDoubleQuote:
		if r == s.cfg.DoubleQuote {
			s.state = stateNormal
		}
		return false
	}
	switch r {
	case s.cfg.SingleQuote:
		s.state = stateSingleQuote
		return false
	case s.cfg.DoubleQuote:
		s.state = stateDoubleQuote
		return false
	}
	return true
}

// finish reports an error when input ended outside Normal state.
func (s *scanner) finish(input string) error {
	switch s.state {
	case stateSingleQuote:
		return errUnclosed("Unclosed single quote in: %s", input)
	case stateDoubleQuote:
		return errUnclosed("Unclosed double quote in: %s", input)
	case stateEscape:
		return errUnclosed("Trailing escape character in: %s", input)
	}
	return nil
}

// TokenGroup is the tokenizer's output for one raw argument: either a scalar
// passed through unchanged, or the resolved sub-tokens of a bracket group.
type TokenGroup struct {
	Raw       string
	Bracketed bool
	Tokens    []string
}

// Scalar returns the token of a non-bracketed group.
func (g TokenGroup) Scalar() (string, bool) {
	if g.Bracketed || len(g.Tokens) != 1 {
		return "", false
	}
	return g.Tokens[0], true
}

var segmentBuffers = pool.NewBufferPool()

// Tokenize validates arg and groups it. A token that starts with the open
// bracket must end with the close bracket; its interior is split on the
// delimiter and each segment has its quotes removed and escapes resolved.
// Any other token is a scalar and is returned unchanged; quotes and
// escapes only have meaning inside a group.
func Tokenize(arg string, cfg Config) (TokenGroup, error) {
	if strings.HasPrefix(arg, string(cfg.OpenBracket)) {
		open, closing := utf8.RuneLen(cfg.OpenBracket), utf8.RuneLen(cfg.CloseBracket)
		if len(arg) < open+closing || !strings.HasSuffix(arg, string(cfg.CloseBracket)) {
			return TokenGroup{}, errUnclosed("Unclosed bracket in: %s", arg)
		}
		interior := arg[open : len(arg)-closing]
		segments, err := Split(interior, cfg)
		if err != nil {
			return TokenGroup{}, err
		}
		for i, seg := range segments {
			if segments[i], err = resolveSegment(seg, cfg); err != nil {
				return TokenGroup{}, err
			}
		}
		return TokenGroup{Raw: arg, Bracketed: true, Tokens: segments}, nil
	}

	return TokenGroup{Raw: arg, Tokens: []string{arg}}, nil
}

// TokenizeAll tokenizes every argument, stopping at the first error.
func TokenizeAll(args []string, cfg Config) ([]TokenGroup, error) {
	groups := make([]TokenGroup, 0, len(args))
	for _, arg := range args {
		g, err := Tokenize(arg, cfg)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Split divides bracket-interior text on the delimiter, ignoring delimiters
// that are quoted or escaped. Segments are whitespace-trimmed but otherwise
// kept verbatim, quotes and escapes included. Empty segments are kept in
// position, so "" yields [""] and ",," yields ["", "", ""].
func Split(interior string, cfg Config) ([]string, error) {
	sc := scanner{cfg: &cfg}
	buf := segmentBuffers.Get(len(interior))
	defer segmentBuffers.Put(buf)

	segments := make([]string, 0, strings.Count(interior, string(cfg.Delimiter))+1)
	for _, r := range interior {
		if sc.next(r) {
			switch r {
			case cfg.Delimiter:
				segments = append(segments, strings.TrimSpace(string(*buf)))
				*buf = (*buf)[:0]
				continue
			case cfg.OpenBracket, cfg.CloseBracket:
				return nil, errNested(interior)
			}
		}
		*buf = utf8.AppendRune(*buf, r)
	}
	if err := sc.finish(interior); err != nil {
		return nil, err
	}
	return append(segments, strings.TrimSpace(string(*buf))), nil
}
