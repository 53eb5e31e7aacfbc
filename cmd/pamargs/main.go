// Command pamargs checks PAM module argument declarations and runs the
// parser against sample argument lists.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-pamargs/internal/declfile"
	pamio "github.com/dzonerzy/go-pamargs/io"
	"github.com/dzonerzy/go-pamargs/pamargs"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	decl      string
	verbose   bool
	logFormat string
	noColor   bool

	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(stderr, err)
	}
	return newExitCodeManager().resolve(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "pamargs",
		Short:         "Check PAM argument declarations and parse sample arguments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.decl, "decl", "d", "", "Path to a YAML declaration file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log parser diagnostics to stderr")
	pf.StringVar(&opts.logFormat, "log-format", "tagged", "Diagnostics format: tagged, symbols, plain, json or slog")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored diagnostics")

	root.AddCommand(
		newParseCmd(opts),
		newCheckCmd(opts),
		newSplitCmd(opts),
		newEscapeCmd(opts),
		newUnescapeCmd(opts),
	)
	return root
}

// loadDecl reads the declaration file named by --decl.
func (o *globalOptions) loadDecl() (*declfile.File, error) {
	if o.decl == "" {
		return nil, &usageError{err: errors.New("--decl is required")}
	}
	return declfile.Load(o.decl)
}

// config returns the file's configuration, or the defaults without --decl.
func (o *globalOptions) config() (pamargs.Config, error) {
	if o.decl == "" {
		return pamargs.DefaultConfig(), nil
	}
	f, err := declfile.Load(o.decl)
	if err != nil {
		return pamargs.Config{}, err
	}
	return f.Config()
}

// logger returns the diagnostics sink selected by --verbose and --log-format.
func (o *globalOptions) logger() (pamargs.Logger, error) {
	if !o.verbose {
		return nil, nil
	}
	if o.logFormat == "slog" {
		h := slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return pamargs.SlogLogger(slog.New(h)), nil
	}

	streams := pamio.New().WithOut(o.stderr).WithErr(o.stderr)
	if o.noColor {
		streams.NoColor()
	}
	l := pamio.NewLogger(streams).WithLevel(pamio.LevelDebug)
	switch o.logFormat {
	case "tagged":
		l.WithFormat(pamio.LogFormatTagged)
	case "symbols":
		l.WithFormat(pamio.LogFormatSymbols)
	case "plain":
		l.WithFormat(pamio.LogFormatPlain)
	case "json":
		l.WithFormat(pamio.LogFormatJSON)
	default:
		return nil, &usageError{err: fmt.Errorf("unknown log format %q", o.logFormat)}
	}
	return l, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var pe *pamargs.ParseError
	if errors.As(err, &pe) {
		if d := pe.Details(); d != "" && d != pe.Error() {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
