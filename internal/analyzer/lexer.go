package analyzer

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// LexerDetector delegates detection to the syntax lexer registry
type LexerDetector struct{}

// NewLexerDetector creates a lexer-registry backed detector
func NewLexerDetector() *LexerDetector {
	return &LexerDetector{}
}

// Detect asks the lexer registry to analyse the sample
func (d *LexerDetector) Detect(code string) (Guess, error) {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return Guess{}, fmt.Errorf("no lexer matched the sample")
	}
	return Guess{
		Language:   strings.ToLower(lexer.Config().Name),
		Confidence: 0.8,
	}, nil
}
