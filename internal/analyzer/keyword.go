package analyzer

import "strings"

// KeywordDetector guesses the language by counting distinctive tokens
type KeywordDetector struct {
	MinConfidence float64 // below this the guess falls back to the default language
}

// NewKeywordDetector creates a keyword-based detector with default settings
func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{MinConfidence: 0.2}
}

var signatures = []struct {
	language string
	shebang  string
	tokens   []string
}{
	{"python", "python", []string{"def ", "import ", "print(", "elif ", "self.", "lambda ", "None", "__init__"}},
	{"go", "", []string{"func ", "package ", ":=", "fmt.", "chan ", "go func", "struct {", "interface {"}},
	{"javascript", "node", []string{"const ", "let ", "=>", "console.log", "function ", "===", "async "}},
	{"bash", "sh", []string{"#!/bin/", "echo ", "esac", "$1", "fi"}},
}

// Detect scores each known language by token hits and returns the best match.
// An executable shebang on the first line wins outright.
func (d *KeywordDetector) Detect(code string) (Guess, error) {
	if strings.TrimSpace(code) == "" {
		return Guess{Language: "python", Confidence: 0}, nil
	}

	if strings.HasPrefix(code, "#!") {
		first := code
		if i := strings.IndexByte(code, '\n'); i >= 0 {
			first = code[:i]
		}
		for _, sig := range signatures {
			if sig.shebang != "" && strings.Contains(first, sig.shebang) {
				return Guess{Language: sig.language, Confidence: 1.0}, nil
			}
		}
	}

	best := Guess{Language: "python", Confidence: 0}
	for _, sig := range signatures {
		hits := 0
		for _, tok := range sig.tokens {
			if strings.Contains(code, tok) {
				hits++
			}
		}
		conf := float64(hits) / float64(len(sig.tokens))
		if conf > best.Confidence {
			best = Guess{Language: sig.language, Confidence: conf}
		}
	}

	if best.Confidence < d.MinConfidence {
		return Guess{Language: "python", Confidence: best.Confidence}, nil
	}
	return best, nil
}
