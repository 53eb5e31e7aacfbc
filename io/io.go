// Package pamio provides terminal-aware output streams and a leveled logger
// that satisfies pamargs.Logger.
package pamio

import (
	stdio "io"
	"os"
	"strings"
)

// Streams bundles the output writers a logger writes to, together with the
// color policy applied to them.
type Streams struct {
	out stdio.Writer
	err stdio.Writer

	forceColor         bool
	noColor            bool
	forceColorLevel    int
	hasForceColorLevel bool

	getenv func(string) string
}

// New returns streams bound to process stdout and stderr.
func New() *Streams {
	return &Streams{out: os.Stdout, err: os.Stderr, getenv: os.Getenv}
}

// WithOut sets the standard output writer.
func (s *Streams) WithOut(w stdio.Writer) *Streams { s.out = w; return s }

// WithErr sets the standard error writer.
func (s *Streams) WithErr(w stdio.Writer) *Streams { s.err = w; return s }

// ForceColor turns color on regardless of environment.
func (s *Streams) ForceColor() *Streams { s.forceColor = true; s.noColor = false; return s }

// NoColor turns color off regardless of environment.
func (s *Streams) NoColor() *Streams { s.noColor = true; s.forceColor = false; return s }

// ColorAuto goes back to environment heuristics.
func (s *Streams) ColorAuto() *Streams { s.noColor = false; s.forceColor = false; return s }

// ForceColorLevel pins the color level (0=none, 1=16, 2=256, 3=truecolor).
func (s *Streams) ForceColorLevel(level int) *Streams {
	s.forceColorLevel = level
	s.hasForceColorLevel = true
	return s
}

func (s *Streams) Out() stdio.Writer { return s.out }
func (s *Streams) Err() stdio.Writer { return s.err }

// IsTerminal reports whether w is a character device.
func IsTerminal(w stdio.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// SupportsColor honors NO_COLOR and FORCE_COLOR, then requires stdout to be
// a terminal with a TERM other than "dumb".
func (s *Streams) SupportsColor() bool {
	if s.noColor || s.getenv("NO_COLOR") != "" {
		return false
	}
	if s.forceColor || s.getenv("FORCE_COLOR") != "" {
		return true
	}
	if !IsTerminal(s.out) {
		return false
	}
	term := s.getenv("TERM")
	return term != "" && term != "dumb"
}

// ColorLevel returns 0 for none, 1 for basic, 2 for 256 colors and 3 for
// truecolor.
func (s *Streams) ColorLevel() int {
	if s.hasForceColorLevel {
		return s.forceColorLevel
	}
	if !s.SupportsColor() {
		return 0
	}
	colorterm := s.getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return 3
	}
	term := s.getenv("TERM")
	if strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") {
		return 3
	}
	if tp := s.getenv("TERM_PROGRAM"); tp == "vscode" || tp == "zed" {
		return 3
	}
	if strings.Contains(term, "256color") {
		return 2
	}
	return 1
}

// Colorize wraps text in the SGR code when color is supported.
func (s *Streams) Colorize(text, code string) string {
	if !s.SupportsColor() {
		return text
	}
	return "\x1b[" + code + "m" + text + "\x1b[0m"
}

func (s *Streams) Bold(text string) string  { return s.Colorize(text, "1") }
func (s *Streams) Faint(text string) string { return s.Colorize(text, "2") }
