package highlight

import "github.com/ivlev/code2video/internal/theme"

// Segment is a run of characters drawn in one color. Concatenating the
// segments of a line reproduces the line exactly.
type Segment struct {
	Text  string
	Color theme.RGB
}

// Strategy turns one line of source into colored segments. Implementations
// must be pure: the same line always yields the same segments.
type Strategy interface {
	Line(line string) []Segment
	Name() string
}

// Colors is the fixed color table shared by both strategies.
type Colors struct {
	Keyword theme.RGB // keywords and namespace imports
	Builtin theme.RGB // builtins, declarations, function names
	String  theme.RGB
	Number  theme.RGB
	Comment theme.RGB
	Text    theme.RGB
}

// DefaultColors builds the table for a palette. Keyword, string and number
// colors are fixed product colors; builtin and plain text follow the scheme.
func DefaultColors(p theme.Palette) Colors {
	return Colors{
		Keyword: theme.RGB{R: 0xff, G: 0x3e, B: 0x9d},
		Builtin: p.Accent,
		String:  theme.RGB{R: 0x00, G: 0xff, B: 0x88},
		Number:  theme.RGB{R: 0xff, G: 0xff, B: 0x00},
		Comment: theme.RGB{R: 0x8b, G: 0x94, B: 0x9e},
		Text:    p.Text,
	}
}

// NewStrategy picks the best available strategy for a language tag. The
// choice happens once per run, not per line: a known language gets the
// lexer-backed strategy, anything else degrades to the line heuristic.
func NewStrategy(language string, colors Colors) Strategy {
	if s, ok := newLexerStrategy(language, colors); ok {
		return s
	}
	return NewHeuristicStrategy(colors)
}
