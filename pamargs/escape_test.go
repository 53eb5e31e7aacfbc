package pamargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	inputs := []string{
		"",
		"plain",
		"a,b",
		"[x]",
		`it's "quoted"`,
		`back\slash`,
		`\n is not a newline`,
		`[a,'b',"c"]\`,
		"multi\nline\ttab",
		"ümlaut,ß",
	}
	for _, s := range inputs {
		escaped := Escape(s, cfg)
		got, err := Unescape(escaped, cfg)
		require.NoError(t, err, "Unescape(%q)", escaped)
		assert.Equal(t, s, got, "round trip via %q", escaped)
	}
}

func TestEscapeCustomCharacters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = ';'
	cfg.OpenBracket, cfg.CloseBracket = '{', '}'

	escaped := Escape("{a;b}", cfg)
	assert.Equal(t, `\{a\;b\}`, escaped)

	got, err := Unescape(escaped, cfg)
	require.NoError(t, err)
	assert.Equal(t, "{a;b}", got)

	// The default specials stay recognized by Unescape.
	got, err = Unescape(`a\,b`, cfg)
	require.NoError(t, err)
	assert.Equal(t, "a,b", got)
}

func TestUnescape(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		in   string
		want string
	}{
		{`a\,b`, "a,b"},
		{`\[x\]`, "[x]"},
		{`\\`, `\`},
		{`\'\"`, `'"`},
		{`line\nbreak`, "line\nbreak"},
		{`\t\r`, "\t\r"},
		{"no escapes", "no escapes"},
	}
	for _, tt := range tests {
		got, err := Unescape(tt.in, cfg)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUnescapeErrors(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Unescape(`bad\x`, cfg)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeInvalidInput, ErrorTypeOf(err))
	assert.Equal(t, `Invalid input: Invalid escape sequence \x`, err.Error())

	_, err = Unescape(`ends\`, cfg)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeUnclosedDelimiter, ErrorTypeOf(err))
	assert.Equal(t, "Unclosed delimiter: String ends with an escape character", err.Error())
}

func TestResolveSegment(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		in   string
		want string
	}{
		{`MSG="a, b"`, "MSG=a, b"},
		{`'single'`, "single"},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`A=\"x\"`, `A="x"`},
		{`"a\"b"`, `a"b`},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		got, err := resolveSegment(tt.in, cfg)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
