package content

import (
	"fmt"
	"strings"
)

// Record is one day of the challenge: the code to type and what to say about it.
type Record struct {
	Day      int    `json:"day"`
	Title    string `json:"title"`
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
	Output   string `json:"output,omitempty"`
	Script   string `json:"script,omitempty"`
}

func (r Record) Validate() error {
	if r.Day < 1 {
		return fmt.Errorf("day %d: номер дня должен быть положительным", r.Day)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("day %d: пустой заголовок", r.Day)
	}
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("day %d: пустой код", r.Day)
	}
	return nil
}

func (r Record) HasOutput() bool {
	return strings.TrimSpace(r.Output) != ""
}

// EnsureOutput fills the Output field from the code when the record does not
// carry one: the first print(...) argument, quotes stripped, capped at 40
// characters. Records without a print stay output-less.
func (r *Record) EnsureOutput() {
	if r.HasOutput() {
		return
	}
	r.Output = deriveOutput(r.Code)
}

func deriveOutput(code string) string {
	lower := strings.ToLower(code)
	if !strings.Contains(lower, "print") {
		return ""
	}
	if strings.Contains(code, "print('Hello, World!')") {
		return "Hello, World!"
	}

	_, rest, found := strings.Cut(code, "print(")
	if !found {
		return ""
	}
	arg, _, found := strings.Cut(rest, ")")
	if !found {
		return ""
	}
	arg = strings.Trim(arg, `'"`)
	runes := []rune(arg)
	if len(runes) > 40 {
		arg = string(runes[:40])
	}
	return arg
}

// ScriptText returns the voiceover script, synthesizing the stock one when
// the record has none.
func (r Record) ScriptText() string {
	if strings.TrimSpace(r.Script) != "" {
		return r.Script
	}
	return fmt.Sprintf(
		"Hey coders! Welcome to Day %d. Today we're learning %s. "+
			"Here's the code. Type it out yourself and watch what happens. "+
			"Like and follow for Day %d!",
		r.Day, r.Title, r.Day+1,
	)
}
