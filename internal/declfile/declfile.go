// Package declfile loads parser declarations from YAML files.
//
// A file is checked against an embedded JSON schema, its version must be
// compatible with v1, and the result can be turned into a pamargs.Builder.
package declfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-pamargs/pamargs"
)

// SupportedMajor is the declaration file major version this package reads.
const SupportedMajor = "v1"

var (
	// ErrSchema wraps schema violations.
	ErrSchema = errors.New("declaration file does not match schema")
	// ErrVersion is returned for a missing, malformed or incompatible version.
	ErrVersion = errors.New("unsupported declaration file version")
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "declfile://pamargs.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// File is a decoded declaration file.
type File struct {
	Version   string         `yaml:"version" cbor:"version"`
	Module    string         `yaml:"module,omitempty" cbor:"module,omitempty"`
	Options   Options        `yaml:"options,omitempty" cbor:"options"`
	Flags     []FlagDecl     `yaml:"flags,omitempty" cbor:"flags"`
	KeyValues []KeyValueDecl `yaml:"key_values,omitempty" cbor:"key_values"`
}

// Options mirrors pamargs.Config. Unset fields keep pamargs defaults.
type Options struct {
	CaseSensitive       *bool       `yaml:"case_sensitive,omitempty" cbor:"case_sensitive,omitempty"`
	CaseSensitiveValues *bool       `yaml:"case_sensitive_values,omitempty" cbor:"case_sensitive_values,omitempty"`
	CollectLeftover     *bool       `yaml:"collect_leftover,omitempty" cbor:"collect_leftover,omitempty"`
	AcceptUndeclared    *bool       `yaml:"accept_undeclared,omitempty" cbor:"accept_undeclared,omitempty"`
	UndeclaredFormats   []string    `yaml:"undeclared_formats,omitempty" cbor:"undeclared_formats,omitempty"`
	TrimValues          *bool       `yaml:"trim_values,omitempty" cbor:"trim_values,omitempty"`
	Escape              string      `yaml:"escape,omitempty" cbor:"escape,omitempty"`
	SingleQuote         string      `yaml:"single_quote,omitempty" cbor:"single_quote,omitempty"`
	DoubleQuote         string      `yaml:"double_quote,omitempty" cbor:"double_quote,omitempty"`
	OpenBracket         string      `yaml:"open_bracket,omitempty" cbor:"open_bracket,omitempty"`
	CloseBracket        string      `yaml:"close_bracket,omitempty" cbor:"close_bracket,omitempty"`
	Delimiter           string      `yaml:"delimiter,omitempty" cbor:"delimiter,omitempty"`
	Conversion          *Conversion `yaml:"conversion,omitempty" cbor:"conversion,omitempty"`
}

// Conversion overrides the converter words and trimming of pamargs.ConverterConfig.
type Conversion struct {
	TrimWhitespace *bool    `yaml:"trim_whitespace,omitempty" cbor:"trim_whitespace,omitempty"`
	TrueWords      []string `yaml:"true_words,omitempty" cbor:"true_words,omitempty"`
	FalseWords     []string `yaml:"false_words,omitempty" cbor:"false_words,omitempty"`
	NoneWords      []string `yaml:"none_words,omitempty" cbor:"none_words,omitempty"`
}

// FlagDecl is the file form of a pamargs.Flag.
type FlagDecl struct {
	Name        string   `yaml:"name" cbor:"name"`
	Description string   `yaml:"description,omitempty" cbor:"description,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty" cbor:"depends_on,omitempty"`
	Excludes    []string `yaml:"excludes,omitempty" cbor:"excludes,omitempty"`
}

// KeyValueDecl is the file form of a pamargs.KeyValue; Type names a built-in converter.
type KeyValueDecl struct {
	Name          string   `yaml:"name" cbor:"name"`
	Description   string   `yaml:"description,omitempty" cbor:"description,omitempty"`
	Required      bool     `yaml:"required,omitempty" cbor:"required,omitempty"`
	Formats       []string `yaml:"formats,omitempty" cbor:"formats,omitempty"`
	AllowedValues []string `yaml:"allowed_values,omitempty" cbor:"allowed_values,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty" cbor:"depends_on,omitempty"`
	Excludes      []string `yaml:"excludes,omitempty" cbor:"excludes,omitempty"`
	Type          string   `yaml:"type,omitempty" cbor:"type,omitempty"`
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode validates data against the schema and decodes it.
func Decode(data []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	return &f, nil
}

// validateDocument re-encodes the YAML tree as JSON so the validator sees
// the same number types it would for a JSON document.
func validateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

func checkVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: %s, want %s.x", ErrVersion, v, SupportedMajor)
	}
	return nil
}

// Config applies the options on top of pamargs.DefaultConfig.
func (f *File) Config() (pamargs.Config, error) {
	cfg := pamargs.DefaultConfig()
	o := f.Options

	setBool(&cfg.CaseSensitive, o.CaseSensitive)
	setBool(&cfg.CaseSensitiveValues, o.CaseSensitiveValues)
	setBool(&cfg.CollectLeftover, o.CollectLeftover)
	setBool(&cfg.AcceptUndeclared, o.AcceptUndeclared)
	setBool(&cfg.TrimValues, o.TrimValues)

	if len(o.UndeclaredFormats) > 0 {
		formats, err := parseFormats(o.UndeclaredFormats)
		if err != nil {
			return cfg, err
		}
		cfg.UndeclaredFormats = formats
	}

	chars := []struct {
		dst *rune
		s   string
	}{
		{&cfg.Escape, o.Escape},
		{&cfg.SingleQuote, o.SingleQuote},
		{&cfg.DoubleQuote, o.DoubleQuote},
		{&cfg.OpenBracket, o.OpenBracket},
		{&cfg.CloseBracket, o.CloseBracket},
		{&cfg.Delimiter, o.Delimiter},
	}
	for _, c := range chars {
		if c.s != "" {
			*c.dst = []rune(c.s)[0]
		}
	}

	if cv := o.Conversion; cv != nil {
		setBool(&cfg.Conversion.TrimWhitespace, cv.TrimWhitespace)
		if cv.TrueWords != nil {
			cfg.Conversion.TrueWords = cv.TrueWords
		}
		if cv.FalseWords != nil {
			cfg.Conversion.FalseWords = cv.FalseWords
		}
		if cv.NoneWords != nil {
			cfg.Conversion.NoneWords = cv.NoneWords
		}
	}
	return cfg, cfg.Validate()
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func parseFormats(names []string) (pamargs.Formats, error) {
	out := make(pamargs.Formats, 0, len(names))
	for _, n := range names {
		f, err := pamargs.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Builder returns a pamargs builder holding the file's configuration and
// declarations. Callers may add sinks, middleware or a logger before Build.
func (f *File) Builder() (*pamargs.Builder, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	b := pamargs.New().Config(cfg)
	for _, fl := range f.Flags {
		b.AddFlag(pamargs.Flag{
			Name:         fl.Name,
			Description:  fl.Description,
			Dependencies: fl.DependsOn,
			Exclusions:   fl.Excludes,
		})
	}
	for _, kv := range f.KeyValues {
		formats, err := parseFormats(kv.Formats)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", kv.Name, err)
		}
		b.AddKeyValue(pamargs.KeyValue{
			Name:          kv.Name,
			Description:   kv.Description,
			Required:      kv.Required,
			Formats:       formats,
			AllowedValues: kv.AllowedValues,
			Dependencies:  kv.DependsOn,
			Exclusions:    kv.Excludes,
			Type:          kv.Type,
		})
	}
	return b, nil
}

// Parser builds a parser straight from the file.
func (f *File) Parser() (*pamargs.Parser, error) {
	b, err := f.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}
