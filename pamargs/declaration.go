package pamargs

import "fmt"

// Sink receives a matched value once Parse has validated the whole input.
// Flags deliver true; key/values deliver the converted value, or nil for a
// bare key or an absent optional.
type Sink func(value any) error

// Into returns a Sink assigning the delivered value to dst. A nil value
// stores the zero value.
func Into[T any](dst *T) Sink {
	return func(v any) error {
		if v == nil {
			var zero T
			*dst = zero
			return nil
		}
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("cannot assign %T to %T", v, *dst)
		}
		*dst = t
		return nil
	}
}

// IntoPtr returns a Sink for optional values: nil clears *dst, anything else
// stores a pointer to a copy.
func IntoPtr[T any](dst **T) Sink {
	return func(v any) error {
		if v == nil {
			*dst = nil
			return nil
		}
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("cannot assign %T to %T", v, *dst)
		}
		*dst = &t
		return nil
	}
}

// Flag declares a boolean, valueless argument.
type Flag struct {
	Name         string
	Description  string
	Dependencies []string
	Exclusions   []string
	Sink         Sink
}

// KeyValue declares a KEY=VALUE argument.
type KeyValue struct {
	Name        string
	Description string
	Required    bool
	// Formats accepted for this key. Empty means KeyValue only.
	Formats Formats
	// AllowedValues restricts the value when non-empty.
	AllowedValues []string
	Dependencies  []string
	Exclusions    []string
	// Converter turns the raw value into a typed one. When nil, Type is
	// resolved through ConverterConfig.ByName; when both are empty the raw
	// string is kept.
	Converter Converter
	Type      string
	Sink      Sink
}

func (kv *KeyValue) formats() Formats {
	if len(kv.Formats) == 0 {
		return Formats{FormatKeyValue}
	}
	return kv.Formats
}

// FlagBuilder configures a Flag declared through Builder.Flag.
type FlagBuilder struct {
	flag   *Flag
	parent *Builder
}

// DependsOn requires the named arguments whenever this flag is present.
func (fb *FlagBuilder) DependsOn(names ...string) *FlagBuilder {
	fb.flag.Dependencies = append(fb.flag.Dependencies, names...)
	return fb
}

// Excludes forbids the named arguments alongside this flag.
func (fb *FlagBuilder) Excludes(names ...string) *FlagBuilder {
	fb.flag.Exclusions = append(fb.flag.Exclusions, names...)
	return fb
}

// Bind delivers true to sink when the flag is present.
func (fb *FlagBuilder) Bind(sink Sink) *FlagBuilder {
	fb.flag.Sink = sink
	return fb
}

// BindTo stores presence into dst.
func (fb *FlagBuilder) BindTo(dst *bool) *FlagBuilder {
	return fb.Bind(Into(dst))
}

// Back returns to the parent builder.
func (fb *FlagBuilder) Back() *Builder { return fb.parent }

// KeyValueBuilder configures a KeyValue declared through Builder.KeyValue.
type KeyValueBuilder struct {
	kv     *KeyValue
	parent *Builder
}

// Required makes the key mandatory.
func (kb *KeyValueBuilder) Required() *KeyValueBuilder {
	kb.kv.Required = true
	return kb
}

// DependsOn requires the named arguments whenever this key is present.
func (kb *KeyValueBuilder) DependsOn(names ...string) *KeyValueBuilder {
	kb.kv.Dependencies = append(kb.kv.Dependencies, names...)
	return kb
}

// Excludes forbids the named arguments alongside this key.
func (kb *KeyValueBuilder) Excludes(names ...string) *KeyValueBuilder {
	kb.kv.Exclusions = append(kb.kv.Exclusions, names...)
	return kb
}

// AllowedFormats replaces the accepted shapes.
func (kb *KeyValueBuilder) AllowedFormats(formats ...Format) *KeyValueBuilder {
	kb.kv.Formats = append(Formats(nil), formats...)
	return kb
}

// AllowedValues restricts the value to the given list.
func (kb *KeyValueBuilder) AllowedValues(values ...string) *KeyValueBuilder {
	kb.kv.AllowedValues = append(kb.kv.AllowedValues, values...)
	return kb
}

// Convert sets a custom converter.
func (kb *KeyValueBuilder) Convert(c Converter) *KeyValueBuilder {
	kb.kv.Converter = c
	return kb
}

// Type selects a built-in converter by name (see ConverterConfig.ByName).
func (kb *KeyValueBuilder) Type(name string) *KeyValueBuilder {
	kb.kv.Type = name
	return kb
}

// Int32 converts the value to int32.
func (kb *KeyValueBuilder) Int32() *KeyValueBuilder { return kb.Type("int32") }

// Bool converts the value with the configured boolean words.
func (kb *KeyValueBuilder) Bool() *KeyValueBuilder { return kb.Type("bool") }

// Char converts the value to a single Char.
func (kb *KeyValueBuilder) Char() *KeyValueBuilder { return kb.Type("char") }

// Optional wraps the selected built-in type so none-words become nil.
func (kb *KeyValueBuilder) Optional() *KeyValueBuilder {
	name := kb.kv.Type
	if name == "" {
		name = "string"
	}
	return kb.Type("optional:" + name)
}

// Bind delivers the converted value to sink.
func (kb *KeyValueBuilder) Bind(sink Sink) *KeyValueBuilder {
	kb.kv.Sink = sink
	return kb
}

// Back returns to the parent builder.
func (kb *KeyValueBuilder) Back() *Builder { return kb.parent }
