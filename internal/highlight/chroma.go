package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/ivlev/code2video/internal/theme"
)

// LexerStrategy colors lines with a real lexer. Token types map to the color
// table through the nearest categorized ancestor: exact type first, then up
// the type hierarchy, plain text color when nothing matches.
type LexerStrategy struct {
	lexer    chroma.Lexer
	language string
	table    map[chroma.TokenType]theme.RGB
	fallback *HeuristicStrategy
	textCol  theme.RGB
}

func newLexerStrategy(language string, colors Colors) (*LexerStrategy, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, false
	}
	return &LexerStrategy{
		lexer:    chroma.Coalesce(lexer),
		language: language,
		table: map[chroma.TokenType]theme.RGB{
			chroma.Keyword:            colors.Keyword,
			chroma.KeywordNamespace:   colors.Keyword,
			chroma.KeywordDeclaration: colors.Builtin,
			chroma.NameBuiltin:        colors.Builtin,
			chroma.NameFunction:       colors.Builtin,
			chroma.NameClass:          colors.Builtin,
			chroma.LiteralString:      colors.String,
			chroma.LiteralNumber:      colors.Number,
			chroma.Comment:            colors.Comment,
		},
		fallback: NewHeuristicStrategy(colors),
		textCol:  colors.Text,
	}, true
}

func (s *LexerStrategy) Name() string {
	return "lexer/" + s.language
}

func (s *LexerStrategy) Line(line string) []Segment {
	if line == "" {
		return nil
	}

	it, err := s.lexer.Tokenise(nil, line)
	if err != nil {
		// Per-line degradation, never a blank line
		return s.fallback.Line(line)
	}

	var segs []Segment
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		segs = append(segs, Segment{Text: tok.Value, Color: s.colorFor(tok.Type)})
	}

	// Lexers may append a newline the input did not have; trim it so the
	// segments reconstruct the line exactly.
	for len(segs) > 0 {
		last := &segs[len(segs)-1]
		trimmed := strings.TrimRight(last.Text, "\n")
		if trimmed == last.Text {
			break
		}
		if trimmed == "" {
			segs = segs[:len(segs)-1]
			continue
		}
		last.Text = trimmed
		break
	}
	return segs
}

// colorFor walks the token type hierarchy to the first categorized ancestor
func (s *LexerStrategy) colorFor(t chroma.TokenType) theme.RGB {
	for cur := t; cur != 0; cur = cur.Parent() {
		if c, ok := s.table[cur]; ok {
			return c
		}
	}
	return s.textCol
}
