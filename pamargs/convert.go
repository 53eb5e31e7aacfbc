package pamargs

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Converter turns a raw value into a typed one. Implementations return a
// *ParseError naming the offending text on failure.
type Converter interface {
	Convert(raw string) (any, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(raw string) (any, error)

// Convert calls f.
func (f ConverterFunc) Convert(raw string) (any, error) { return f(raw) }

// ConverterConfig configures the built-in converters.
type ConverterConfig struct {
	// TrimWhitespace strips surrounding whitespace before converting.
	TrimWhitespace bool
	// TrueWords and FalseWords are matched case-insensitively by BoolConverter.
	TrueWords  []string
	FalseWords []string
	// NoneWords are mapped to the absent state by OptionalConverter.
	NoneWords []string
}

// DefaultConverterConfig returns the default word sets with trimming on.
func DefaultConverterConfig() ConverterConfig {
	return ConverterConfig{
		TrimWhitespace: true,
		TrueWords:      []string{"true", "yes", "1", "on"},
		FalseWords:     []string{"false", "no", "0", "off"},
		NoneWords:      []string{"none", "null", ""},
	}
}

// Convert runs c on raw, trimming first when configured.
func (cc ConverterConfig) Convert(c Converter, raw string) (any, error) {
	if cc.TrimWhitespace {
		raw = strings.TrimSpace(raw)
	}
	return c.Convert(raw)
}

// Identity returns the string converter.
func (cc ConverterConfig) Identity() Converter { return StringConverter{} }

// Int32 returns the signed 32-bit integer converter.
func (cc ConverterConfig) Int32() Converter { return Int32Converter{} }

// Bool returns a boolean converter using the configured words.
func (cc ConverterConfig) Bool() Converter {
	return BoolConverter{TrueWords: cc.TrueWords, FalseWords: cc.FalseWords}
}

// Char returns the single character converter.
func (cc ConverterConfig) Char() Converter { return CharConverter{} }

// Optional wraps inner with the configured none-words.
func (cc ConverterConfig) Optional(inner Converter) Converter {
	return OptionalConverter{Inner: inner, NoneWords: cc.NoneWords}
}

// ByName resolves the converter names used in declaration files:
// string, int32, bool, char and optional:<name>.
func (cc ConverterConfig) ByName(name string) (Converter, error) {
	if inner, ok := strings.CutPrefix(name, "optional:"); ok {
		c, err := cc.ByName(inner)
		if err != nil {
			return nil, err
		}
		return cc.Optional(c), nil
	}
	switch name {
	case "", "string":
		return cc.Identity(), nil
	case "int32", "int":
		return cc.Int32(), nil
	case "bool":
		return cc.Bool(), nil
	case "char":
		return cc.Char(), nil
	default:
		return nil, errInvalidInput("unknown converter %q", name)
	}
}

// StringConverter returns the raw string unchanged.
type StringConverter struct{}

// Convert returns raw.
func (StringConverter) Convert(raw string) (any, error) { return raw, nil }

// Int32Converter parses base-10 signed 32-bit integers.
type Int32Converter struct{}

// Convert parses raw as an int32.
func (Int32Converter) Convert(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, errInvalidInt(raw, err)
	}
	return int32(n), nil
}

// BoolConverter matches raw case-insensitively against word lists.
// Empty lists fall back to the defaults.
type BoolConverter struct {
	TrueWords  []string
	FalseWords []string
}

// Convert maps raw to true or false.
func (c BoolConverter) Convert(raw string) (any, error) {
	trueWords, falseWords := c.TrueWords, c.FalseWords
	if len(trueWords) == 0 && len(falseWords) == 0 {
		def := DefaultConverterConfig()
		trueWords, falseWords = def.TrueWords, def.FalseWords
	}
	if containsFold(trueWords, raw) {
		return true, nil
	}
	if containsFold(falseWords, raw) {
		return false, nil
	}
	return nil, errInvalidBool(raw)
}

// Char is a single character value. It is a distinct type so a char key is
// never mistaken for an int32 one.
type Char rune

func (c Char) String() string { return string(rune(c)) }

// CharConverter requires exactly one character and returns it as a Char.
type CharConverter struct{}

// Convert returns the single character in raw.
func (CharConverter) Convert(raw string) (any, error) {
	n := utf8.RuneCountInString(raw)
	if n != 1 {
		return nil, errInvalidInput("Expected a single character, got '%s' (%d characters)", raw, n)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return Char(r), nil
}

// OptionalConverter maps the empty string and NoneWords to nil and
// delegates everything else to Inner. A nil NoneWords uses the defaults.
type OptionalConverter struct {
	Inner     Converter
	NoneWords []string
}

// Convert returns nil for none-words, otherwise Inner's result.
func (c OptionalConverter) Convert(raw string) (any, error) {
	noneWords := c.NoneWords
	if noneWords == nil {
		noneWords = DefaultConverterConfig().NoneWords
	}
	if raw == "" || containsFold(noneWords, raw) {
		return nil, nil
	}
	if c.Inner == nil {
		return raw, nil
	}
	return c.Inner.Convert(raw)
}

// ConvertAs runs c and asserts the result to T. A nil result (an absent
// optional) yields the zero value and ok=false.
func ConvertAs[T any](c Converter, raw string) (value T, ok bool, err error) {
	v, err := c.Convert(raw)
	if err != nil {
		return value, false, err
	}
	if v == nil {
		return value, false, nil
	}
	value, ok = v.(T)
	if !ok {
		return value, false, errInvalidInput("converter produced %T, not %T", v, value)
	}
	return value, true, nil
}

func containsFold(words []string, s string) bool {
	for _, w := range words {
		if strings.EqualFold(w, s) {
			return true
		}
	}
	return false
}
