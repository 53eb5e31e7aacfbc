package pamargs

import "github.com/dzonerzy/go-pamargs/middleware"

// Builder collects configuration and declarations for a Parser.
//
//	parser, err := pamargs.New().
//	    Flag("DEBUG", "verbose logging").Back().
//	    KeyValue("USER", "account to check").Required().AllowedValues("admin", "guest").Back().
//	    Build()
type Builder struct {
	cfg        Config
	flags      []*Flag
	kvs        []*KeyValue
	middleware []middleware.Middleware
}

// New creates a builder with DefaultConfig.
func New() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Config replaces the whole configuration.
func (b *Builder) Config(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// CaseSensitive sets how argument names are compared.
func (b *Builder) CaseSensitive(enabled bool) *Builder {
	b.cfg.CaseSensitive = enabled
	return b
}

// CaseSensitiveValues sets how values are compared against allow-lists.
func (b *Builder) CaseSensitiveValues(enabled bool) *Builder {
	b.cfg.CaseSensitiveValues = enabled
	return b
}

// CollectLeftover keeps unmatched tokens instead of failing.
func (b *Builder) CollectLeftover(enabled bool) *Builder {
	b.cfg.CollectLeftover = enabled
	return b
}

// AcceptUndeclared routes undeclared key/values to the overflow store.
// With no formats the current list is kept.
func (b *Builder) AcceptUndeclared(formats ...Format) *Builder {
	b.cfg.AcceptUndeclared = true
	if len(formats) > 0 {
		b.cfg.UndeclaredFormats = append(Formats(nil), formats...)
	}
	return b
}

// TrimValues sets whether values are whitespace-trimmed.
func (b *Builder) TrimValues(enabled bool) *Builder {
	b.cfg.TrimValues = enabled
	return b
}

// EscapeChar sets the escape character.
func (b *Builder) EscapeChar(r rune) *Builder {
	b.cfg.Escape = r
	return b
}

// QuoteChars sets the single and double quote characters.
func (b *Builder) QuoteChars(single, double rune) *Builder {
	b.cfg.SingleQuote, b.cfg.DoubleQuote = single, double
	return b
}

// BracketChars sets the group open and close characters.
func (b *Builder) BracketChars(open, closing rune) *Builder {
	b.cfg.OpenBracket, b.cfg.CloseBracket = open, closing
	return b
}

// Delimiter sets the character separating arguments inside a group.
func (b *Builder) Delimiter(r rune) *Builder {
	b.cfg.Delimiter = r
	return b
}

// Conversion sets the converter word lists.
func (b *Builder) Conversion(cc ConverterConfig) *Builder {
	b.cfg.Conversion = cc
	return b
}

// Logger sets the diagnostics sink.
func (b *Builder) Logger(l Logger) *Builder {
	b.cfg.Logger = l
	return b
}

// Use appends parse middleware.
func (b *Builder) Use(mw ...middleware.Middleware) *Builder {
	b.middleware = append(b.middleware, mw...)
	return b
}

// Flag declares a flag and returns its builder.
func (b *Builder) Flag(name, description string) *FlagBuilder {
	f := &Flag{Name: name, Description: description}
	b.flags = append(b.flags, f)
	return &FlagBuilder{flag: f, parent: b}
}

// KeyValue declares a key/value and returns its builder.
func (b *Builder) KeyValue(name, description string) *KeyValueBuilder {
	kv := &KeyValue{Name: name, Description: description}
	b.kvs = append(b.kvs, kv)
	return &KeyValueBuilder{kv: kv, parent: b}
}

// AddFlag appends a ready-made declaration.
func (b *Builder) AddFlag(f Flag) *Builder {
	b.flags = append(b.flags, &f)
	return b
}

// AddKeyValue appends a ready-made declaration.
func (b *Builder) AddKeyValue(kv KeyValue) *Builder {
	b.kvs = append(b.kvs, &kv)
	return b
}

// Build validates everything and returns the parser. Errors are
// *ParseError: DuplicateArgName for a repeated name, InvalidInput for bad
// characters, converters or references.
func (b *Builder) Build() (*Parser, error) {
	flags := make([]Flag, len(b.flags))
	for i, f := range b.flags {
		flags[i] = *f
	}
	kvs := make([]KeyValue, len(b.kvs))
	for i, kv := range b.kvs {
		kvs[i] = *kv
	}
	return NewParser(b.cfg, flags, kvs, b.middleware...)
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() *Parser {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
