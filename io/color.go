package pamio

import (
	"strconv"
	"strings"
)

// ColorSpec is a color in one of three spaces: basic (16), indexed (256) or
// truecolor (RGB).
type ColorSpec struct {
	kind    int
	index   int
	r, g, b uint8
}

const (
	kindBasic = iota + 1
	kindIndexed
	kindTrue
)

var (
	Red           = basic(1)
	Green         = basic(2)
	Yellow        = basic(3)
	Cyan          = basic(6)
	BrightBlack   = basic(8)
	BrightRed     = basic(9)
	BrightGreen   = basic(10)
	BrightYellow  = basic(11)
	BrightBlue    = basic(12)
	BrightMagenta = basic(13)
	BrightCyan    = basic(14)
)

func basic(i int) ColorSpec { return ColorSpec{kind: kindBasic, index: i} }

// Indexed returns a 256-color palette entry.
func Indexed(i int) ColorSpec { return ColorSpec{kind: kindIndexed, index: i} }

// Truecolor returns a 24-bit RGB color.
func Truecolor(r, g, b uint8) ColorSpec { return ColorSpec{kind: kindTrue, r: r, g: g, b: b} }

// Style is a fluent builder for a foreground color and text attributes.
type Style struct {
	fg          *ColorSpec
	bold, faint bool
}

func NewStyle() *Style                 { return &Style{} }
func (s *Style) Fg(c ColorSpec) *Style { s.fg = &c; return s }
func (s *Style) Bold() *Style          { s.bold = true; return s }
func (s *Style) Faint() *Style         { s.faint = true; return s }

// Sprint styles text for the given streams, or returns it unchanged when they
// do not support color.
func (s *Style) Sprint(st *Streams, text string) string {
	if !st.SupportsColor() {
		return text
	}
	seq := s.sequence(st.ColorLevel())
	if seq == "" {
		return text
	}
	return "\x1b[" + seq + "m" + text + "\x1b[0m"
}

func (s *Style) sequence(level int) string {
	codes := make([]string, 0, 3)
	if s.bold {
		codes = append(codes, "1")
	}
	if s.faint {
		codes = append(codes, "2")
	}
	if s.fg != nil {
		if c := colorCode(*s.fg, level); c != "" {
			codes = append(codes, c)
		}
	}
	return strings.Join(codes, ";")
}

// colorCode degrades to nothing when the terminal cannot show the color space.
func colorCode(c ColorSpec, level int) string {
	switch c.kind {
	case kindBasic:
		idx := min(max(c.index, 0), 15)
		if idx < 8 {
			return strconv.Itoa(30 + idx)
		}
		return strconv.Itoa(90 + idx - 8)
	case kindIndexed:
		if level >= 2 {
			return "38;5;" + strconv.Itoa(c.index)
		}
	case kindTrue:
		if level >= 3 {
			return "38;2;" + strconv.Itoa(int(c.r)) + ";" + strconv.Itoa(int(c.g)) + ";" + strconv.Itoa(int(c.b))
		}
	}
	return ""
}

// Theme maps log levels to colors.
type Theme struct {
	Debug, Info, Warning, Error ColorSpec
}

func DefaultTheme16() Theme {
	return Theme{Debug: BrightMagenta, Info: BrightCyan, Warning: BrightYellow, Error: BrightRed}
}

func DefaultTheme256() Theme {
	return Theme{Debug: Indexed(141), Info: BrightCyan, Warning: Indexed(214), Error: BrightRed}
}

func DefaultThemeTruecolor() Theme {
	return Theme{
		Debug:   Truecolor(189, 147, 249),
		Info:    Truecolor(139, 233, 253),
		Warning: Truecolor(255, 184, 108),
		Error:   Truecolor(255, 85, 85),
	}
}

// DefaultTheme picks a theme for the streams' color level.
func DefaultTheme(st *Streams) Theme {
	switch st.ColorLevel() {
	case 3:
		return DefaultThemeTruecolor()
	case 2:
		return DefaultTheme256()
	default:
		return DefaultTheme16()
	}
}
