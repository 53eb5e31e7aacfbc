package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-pamargs/internal/declfile"
)

type checkOptions struct {
	*globalOptions
	watch  bool
	expect string
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	o := &checkOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "check --decl FILE",
		Short: "Validate a declaration file and print its fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.watch {
				return o.runWatch(cmd)
			}
			return o.run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Re-check the file every time it changes")
	cmd.Flags().StringVar(&o.expect, "expect", "", "Fail unless the fingerprint equals this value")
	return cmd
}

func (o *checkOptions) run(w io.Writer) error {
	f, err := o.loadDecl()
	if err != nil {
		return err
	}
	return o.report(w, f)
}

// report builds a parser to catch reference and naming errors the schema
// cannot see, then prints the summary line.
func (o *checkOptions) report(w io.Writer, f *declfile.File) error {
	if _, err := f.Parser(); err != nil {
		return err
	}
	fp, err := f.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "ok %s (%d flags, %d key/values)\n", fp, len(f.Flags), len(f.KeyValues))
	if o.expect != "" && o.expect != fp {
		return &ExitError{Code: 1, Err: fmt.Errorf("fingerprint mismatch: want %s", o.expect)}
	}
	return nil
}

func (o *checkOptions) runWatch(cmd *cobra.Command) error {
	if err := o.run(cmd.OutOrStdout()); err != nil {
		printError(o.stderr, err)
	}
	return declfile.Watch(cmd.Context(), o.decl, func(f *declfile.File, err error) {
		if err == nil {
			err = o.report(cmd.OutOrStdout(), f)
		}
		if err != nil {
			printError(o.stderr, err)
		}
	})
}
