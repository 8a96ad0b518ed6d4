package highlight

import (
	"strings"
	"unicode"

	"github.com/ivlev/code2video/internal/theme"
)

// keywords recognized by the fallback classifier. Matched as substrings,
// not word boundaries.
var heuristicKeywords = []string{
	"print", "def", "class", "if", "else", "for", "while", "import", "return",
	"func", "package", "const", "fmt", "var",
}

var commentMarkers = []string{"#", "//", "--", ";"}

// HeuristicStrategy classifies a whole line into a single color. Used when
// no lexer is available for the language tag.
type HeuristicStrategy struct {
	colors Colors
}

func NewHeuristicStrategy(colors Colors) *HeuristicStrategy {
	return &HeuristicStrategy{colors: colors}
}

func (s *HeuristicStrategy) Name() string {
	return "heuristic"
}

func (s *HeuristicStrategy) Line(line string) []Segment {
	if line == "" {
		return nil
	}
	return []Segment{{Text: line, Color: s.classify(line)}}
}

// classify applies the priority rules: comment, keyword, string, number, text
func (s *HeuristicStrategy) classify(line string) theme.RGB {
	trimmed := strings.TrimSpace(line)
	for _, marker := range commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return s.colors.Comment
		}
	}
	for _, kw := range heuristicKeywords {
		if strings.Contains(line, kw) {
			return s.colors.Keyword
		}
	}
	if strings.ContainsAny(line, `'"`+"`") {
		return s.colors.String
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return s.colors.Number
		}
	}
	return s.colors.Text
}
