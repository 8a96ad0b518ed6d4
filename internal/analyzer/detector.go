package analyzer

// Guess is a detected source language with a confidence score
type Guess struct {
	Language   string  // "python", "go", "javascript", ...
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for language detection strategies
type Detector interface {
	Detect(code string) (Guess, error)
}
