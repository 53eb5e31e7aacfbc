package pamargs

import (
	"strings"
)

// Escape prefixes the escape character to every special character in s:
// the escape character itself, the delimiter, both brackets and both quotes.
// Unescape(Escape(s)) == s for every s.
func Escape(s string, cfg Config) string {
	specials := cfg.specials()
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, r := range s {
		if r == cfg.Escape || containsRune(specials, r) {
			b.WriteRune(cfg.Escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unescape resolves escape sequences in s. Recognized sequences are \n, \t,
// \r and an escaped special character; anything else is InvalidInput and a
// trailing escape is UnclosedDelimiter.
func Unescape(s string, cfg Config) (string, error) {
	if !strings.ContainsRune(s, cfg.Escape) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			lit, ok := unescapeRune(r, cfg)
			if !ok {
				return "", errInvalidInput("Invalid escape sequence %c%c", cfg.Escape, r)
			}
			b.WriteRune(lit)
			escaped = false
			continue
		}
		if r == cfg.Escape {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", errUnclosed("String ends with an escape character")
	}
	return b.String(), nil
}

// unescapeRune maps the character following an escape to its literal.
func unescapeRune(r rune, cfg Config) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\', '\'', '"', ',', '[', ']':
		return r, true
	}
	if r == cfg.Escape || containsRune(cfg.specials(), r) {
		return r, true
	}
	return 0, false
}

// resolveSegment strips the quote characters delimiting quoted spans and
// resolves escapes in one pass. seg must already have passed the splitter,
// so quotes are balanced.
func resolveSegment(seg string, cfg Config) (string, error) {
	if !strings.ContainsRune(seg, cfg.Escape) &&
		!strings.ContainsRune(seg, cfg.SingleQuote) &&
		!strings.ContainsRune(seg, cfg.DoubleQuote) {
		return seg, nil
	}

	var b strings.Builder
	b.Grow(len(seg))
	state := stateNormal
	escaped := false
	for _, r := range seg {
		if escaped {
			lit, ok := unescapeRune(r, cfg)
			if !ok {
				return "", errInvalidInput("Invalid escape sequence %c%c", cfg.Escape, r)
			}
			b.WriteRune(lit)
			escaped = false
			continue
		}
		if r == cfg.Escape {
			escaped = true
			continue
		}
		switch {
		case state == stateNormal && r == cfg.SingleQuote:
			state = stateSingleQuote
			continue
		case state == stateNormal && r == cfg.DoubleQuote:
			state = stateDoubleQuote
			continue
		case state == stateSingleQuote && r == cfg.SingleQuote,
			state == stateDoubleQuote && r == cfg.DoubleQuote:
			state = stateNormal
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", errUnclosed("Trailing escape character in: %s", seg)
	}
	return b.String(), nil
}

func containsRune(rs []rune, r rune) bool {
	for _, c := range rs {
		if c == r {
			return true
		}
	}
	return false
}
