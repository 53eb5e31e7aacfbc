package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-pamargs/pamargs"
)

func newSplitCmd(g *globalOptions) *cobra.Command {
	var line string
	cmd := &cobra.Command{
		Use:   "split [--line LINE | ARG...]",
		Short: "Show how arguments are tokenized",
		Long: `Split prints one line per token. Tokens that came from a bracket
group are indented under the group they belong to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if line != "" {
				fields, err := shlex.Split(line)
				if err != nil {
					return &usageError{err: fmt.Errorf("split --line: %w", err)}
				}
				args = append(fields, args...)
			}
			cfg, err := g.config()
			if err != nil {
				return err
			}
			groups, err := pamargs.TokenizeAll(args, cfg)
			if err != nil {
				return err
			}
			return writeGroups(cmd.OutOrStdout(), groups)
		},
	}
	cmd.Flags().StringVar(&line, "line", "", "Split one argument string like a shell would")
	return cmd
}

func writeGroups(w io.Writer, groups []pamargs.TokenGroup) error {
	var b strings.Builder
	for _, g := range groups {
		if s, ok := g.Scalar(); ok {
			fmt.Fprintf(&b, "%s\n", s)
			continue
		}
		fmt.Fprintf(&b, "%s\n", g.Raw)
		for _, tok := range g.Tokens {
			fmt.Fprintf(&b, "  %s\n", tok)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func newEscapeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "escape VALUE...",
		Short: "Escape values so they survive tokenization unchanged",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			for _, a := range args {
				fmt.Fprintln(cmd.OutOrStdout(), pamargs.Escape(a, cfg))
			}
			return nil
		},
	}
}

func newUnescapeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unescape VALUE...",
		Short: "Resolve escape sequences",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			for _, a := range args {
				s, err := pamargs.Unescape(a, cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
