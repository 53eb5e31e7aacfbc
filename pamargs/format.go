package pamargs

import "fmt"

// Format is the shape of a key/value token.
type Format int

const (
	// FormatNotKeyValue is a token that is not a key/value at all.
	FormatNotKeyValue Format = iota
	// FormatKeyValue is KEY=VALUE.
	FormatKeyValue
	// FormatKeyOnly is a bare KEY.
	FormatKeyOnly
	// FormatKeyEquals is KEY= with an empty value.
	FormatKeyEquals
	// FormatAll matches every key/value shape in an allow-list.
	FormatAll
)

func (f Format) String() string {
	switch f {
	case FormatNotKeyValue:
		return "NotKeyValue"
	case FormatKeyValue:
		return "KeyValue"
	case FormatKeyOnly:
		return "KeyOnly"
	case FormatKeyEquals:
		return "KeyEquals"
	case FormatAll:
		return "KeyAll"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat is the inverse of Format.String, case sensitive.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "KeyValue":
		return FormatKeyValue, nil
	case "KeyOnly":
		return FormatKeyOnly, nil
	case "KeyEquals":
		return FormatKeyEquals, nil
	case "KeyAll":
		return FormatAll, nil
	default:
		return FormatNotKeyValue, errInvalidInput("unknown key-value format %q", s)
	}
}

// Formats is an allow-list of key/value shapes.
type Formats []Format

// Allows reports whether f is accepted by the list. FormatAll accepts every
// key/value shape but never FormatNotKeyValue.
func (fs Formats) Allows(f Format) bool {
	if f == FormatNotKeyValue {
		return false
	}
	for _, allowed := range fs {
		if allowed == FormatAll || allowed == f {
			return true
		}
	}
	return false
}

func (fs Formats) names() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

// Detected is the classification of one scalar token.
type Detected struct {
	Format   Format
	Key      string
	Value    string
	HasValue bool
}

// DetectFormat classifies token by its first unescaped '='.
//
//	USER=admin -> KeyValue  USER admin
//	DEBUG      -> KeyOnly   DEBUG
//	EMPTY=     -> KeyEquals EMPTY ""
//	-v         -> NotKeyValue
func DetectFormat(token string, cfg Config) Detected {
	idx := indexUnescaped(token, '=', cfg.Escape)
	if idx < 0 {
		if IsValidKeyName(token) {
			return Detected{Format: FormatKeyOnly, Key: token}
		}
		return Detected{Format: FormatNotKeyValue}
	}

	key, value := token[:idx], token[idx+1:]
	if key == "" {
		return Detected{Format: FormatNotKeyValue}
	}
	if value == "" {
		return Detected{Format: FormatKeyEquals, Key: key, HasValue: true}
	}
	return Detected{Format: FormatKeyValue, Key: key, Value: value, HasValue: true}
}

// ValidateFormat fails with InvalidKeyValue when d's shape is not allowed.
func ValidateFormat(d Detected, allowed Formats) error {
	if allowed.Allows(d.Format) {
		return nil
	}
	return errInvalidKeyValue(d.Key, fmt.Sprintf("Invalid format for key '%s': expected one of %s, got %s",
		d.Key, joinNames(allowed.names()), d.Format))
}

// IsValidKeyName reports whether s is an identifier: an ASCII letter or
// underscore followed by ASCII letters, digits or underscores.
func IsValidKeyName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// indexUnescaped returns the byte index of the first target rune not
// preceded by an escape, or -1.
func indexUnescaped(s string, target, escape rune) int {
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == escape:
			escaped = true
		case r == target:
			return i
		}
	}
	return -1
}
