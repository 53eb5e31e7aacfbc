package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-pamargs/internal/declfile"
	"github.com/dzonerzy/go-pamargs/middleware"
	"github.com/dzonerzy/go-pamargs/pamargs"
)

type parseOptions struct {
	*globalOptions
	line         string
	output       string
	timing       bool
	requireFiles []string
	requireDirs  []string
}

func newParseCmd(g *globalOptions) *cobra.Command {
	o := &parseOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "parse --decl FILE [--line LINE | -- ARG...]",
		Short: "Parse module arguments against a declaration file",
		Example: `  pamargs parse -d pam_example.yaml -- DEBUG USER=alice '[PORT=22,MODE=fast]'
  pamargs parse -d pam_example.yaml --line 'DEBUG MSG="hello world"' -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.OutOrStdout(), args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.line, "line", "", "Split one argument string like a shell would instead of reading ARGs")
	f.StringVarP(&o.output, "output", "o", "text", "Output format: text, json, yaml or cbor")
	f.BoolVar(&o.timing, "time", false, "Log the parse call with its duration to stderr")
	f.StringSliceVar(&o.requireFiles, "require-file", nil, "Keys whose values must name existing files")
	f.StringSliceVar(&o.requireDirs, "require-dir", nil, "Keys whose values must name existing directories")
	return cmd
}

func (o *parseOptions) run(w io.Writer, args []string) error {
	if o.line != "" {
		if len(args) > 0 {
			return &usageError{err: fmt.Errorf("--line and positional arguments are mutually exclusive")}
		}
		fields, err := shlex.Split(o.line)
		if err != nil {
			return &usageError{err: fmt.Errorf("split --line: %w", err)}
		}
		args = fields
	}

	f, err := o.loadDecl()
	if err != nil {
		return err
	}
	p, err := o.buildParser(f)
	if err != nil {
		return err
	}
	res, err := p.Parse(args)
	if err != nil {
		return err
	}
	return writeReport(w, o.output, newReport(res))
}

func (o *parseOptions) buildParser(f *declfile.File) (*pamargs.Parser, error) {
	b, err := f.Builder()
	if err != nil {
		return nil, err
	}
	l, err := o.logger()
	if err != nil {
		return nil, err
	}
	if l != nil {
		b.Logger(l)
	}
	if o.timing {
		b.Use(middleware.LoggerWithWriter(o.stderr, middleware.WithArgs(false)))
	}
	var validators []middleware.NamedValidator
	if len(o.requireFiles) > 0 {
		validators = append(validators, middleware.File(o.requireFiles...))
	}
	if len(o.requireDirs) > 0 {
		validators = append(validators, middleware.Dir(o.requireDirs...))
	}
	if len(validators) > 0 {
		b.Use(middleware.Validate(validators...))
	}
	return b.Build()
}

// report is the serialized form of a Result.
type report struct {
	Flags      []string       `json:"flags" yaml:"flags" cbor:"flags"`
	Values     map[string]any `json:"values" yaml:"values" cbor:"values"`
	Undeclared map[string]any `json:"undeclared,omitempty" yaml:"undeclared,omitempty" cbor:"undeclared,omitempty"`
	Leftover   []string       `json:"leftover,omitempty" yaml:"leftover,omitempty" cbor:"leftover,omitempty"`
}

func newReport(res *pamargs.Result) report {
	r := report{
		Flags:    res.Flags(),
		Values:   make(map[string]any),
		Leftover: res.Leftover(),
	}
	if r.Flags == nil {
		r.Flags = []string{}
	}
	for _, k := range res.Keys() {
		v, _ := res.Value(k)
		if c, ok := v.(pamargs.Char); ok {
			v = c.String()
		}
		r.Values[k] = v
	}
	if ov := res.Overflow(); ov != nil && ov.Len() > 0 {
		r.Undeclared = make(map[string]any, ov.Len())
		ov.Range(func(key, value string, hasValue bool) bool {
			if hasValue {
				r.Undeclared[key] = value
			} else {
				r.Undeclared[key] = nil
			}
			return true
		})
	}
	return r
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "text":
		return writeText(w, r)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := declfile.Canonical().Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return &usageError{err: fmt.Errorf("unknown output format %q", format)}
	}
}

func writeText(w io.Writer, r report) error {
	var b strings.Builder
	for _, f := range r.Flags {
		fmt.Fprintf(&b, "flag   %s\n", f)
	}
	for _, k := range sortedKeys(r.Values) {
		fmt.Fprintf(&b, "value  %s = %s\n", k, formatValue(r.Values[k]))
	}
	for _, k := range sortedKeys(r.Undeclared) {
		fmt.Fprintf(&b, "extra  %s = %s\n", k, formatValue(r.Undeclared[k]))
	}
	if len(r.Leftover) > 0 {
		fmt.Fprintf(&b, "text   %s\n", strings.Join(r.Leftover, " "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<none>"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
