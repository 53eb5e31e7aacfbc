package pamargs

// Config holds the parser settings. It is copied into a Parser at build
// time and never mutated afterwards.
type Config struct {
	// CaseSensitive controls how argument names are compared.
	CaseSensitive bool
	// CaseSensitiveValues controls how values are compared against allow-lists.
	CaseSensitiveValues bool
	// CollectLeftover keeps unmatched tokens as leftover text instead of
	// failing with UnrecognizedArg.
	CollectLeftover bool
	// AcceptUndeclared routes undeclared key/value pairs to the overflow store.
	AcceptUndeclared bool
	// UndeclaredFormats lists the shapes accepted into the overflow store.
	UndeclaredFormats Formats
	// TrimValues strips surrounding whitespace from key/value values.
	TrimValues bool

	Escape       rune
	SingleQuote  rune
	DoubleQuote  rune
	OpenBracket  rune
	CloseBracket rune
	Delimiter    rune

	// Conversion configures the built-in converters.
	Conversion ConverterConfig

	// Logger receives debug output from every stage. Nil disables logging.
	Logger Logger

	// NewStore builds the overflow store for each parse. Nil uses NewStore.
	NewStore func(caseSensitive bool) KeyValueStore
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:       true,
		CaseSensitiveValues: true,
		CollectLeftover:     false,
		AcceptUndeclared:    false,
		UndeclaredFormats:   Formats{FormatKeyValue},
		TrimValues:          true,
		Escape:              '\\',
		SingleQuote:         '\'',
		DoubleQuote:         '"',
		OpenBracket:         '[',
		CloseBracket:        ']',
		Delimiter:           ',',
		Conversion:          DefaultConverterConfig(),
	}
}

// Validate checks that the special characters are all distinct and set.
func (c Config) Validate() error {
	chars := []struct {
		name string
		r    rune
	}{
		{"escape", c.Escape},
		{"single quote", c.SingleQuote},
		{"double quote", c.DoubleQuote},
		{"open bracket", c.OpenBracket},
		{"close bracket", c.CloseBracket},
		{"delimiter", c.Delimiter},
	}
	seen := make(map[rune]string, len(chars))
	for _, ch := range chars {
		if ch.r == 0 {
			return errInvalidInput("%s character is not set", ch.name)
		}
		if prev, ok := seen[ch.r]; ok {
			return errInvalidInput("%s and %s share the character %q", prev, ch.name, ch.r)
		}
		seen[ch.r] = ch.name
	}
	return nil
}

// specials returns the characters escaped by Escape, excluding the escape
// character itself.
func (c Config) specials() []rune {
	return []rune{c.Delimiter, c.OpenBracket, c.CloseBracket, c.SingleQuote, c.DoubleQuote}
}

func (c Config) newStore() KeyValueStore {
	if c.NewStore != nil {
		return c.NewStore(c.CaseSensitive)
	}
	return NewStore(c.CaseSensitive)
}
