package layout

import "strings"

// MeasureFunc returns the rendered pixel width of a string.
type MeasureFunc func(s string) float64

// Fixed card geometry for the 1080x1920 canvas.
const (
	TitleLineHeight = 75
	TitlePadding    = 62

	CodeHeaderOffset  = 160
	CodeLineHeight    = 65
	CodeLeftMargin    = 60
	MinCodeCardHeight = 700

	OutputGap          = 40
	OutputHeaderHeight = 60
	OutputLineHeight   = 46
	OutputBottomPad    = 20

	MinOutputLines = 3
	MaxOutputLines = 8
)

// WrapWords greedily packs words into lines no wider than maxWidth. A single
// word wider than maxWidth sits alone on its line; truncation is the caller's
// problem.
func WrapWords(text string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current []string
	for _, word := range words {
		test := strings.Join(append(current, word), " ")
		if measure(test) < maxWidth || len(current) == 0 {
			current = append(current, word)
			continue
		}
		lines = append(lines, strings.Join(current, " "))
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// TitleCardHeight derives the title card height from the wrapped line count.
func TitleCardHeight(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	return lineCount*TitleLineHeight + 2*TitlePadding
}

// OutputPlan is the one-per-run sizing of the output box. The box height is
// fixed from the complete output text; during reveal only the trailing
// Display wrapped lines are drawn, so the box never resizes on screen.
type OutputPlan struct {
	Budget  int      // characters per wrapped line
	Lines   []string // full text wrapped once
	Display int      // wrapped lines shown at a time, clamped [3, 8]
	Height  int      // header + Display*line height + bottom padding
}

// PlanOutput wraps the complete output text at a fixed character budget and
// derives the box height. An empty text yields a zero plan.
func PlanOutput(text string, budget int) OutputPlan {
	if budget <= 0 {
		budget = 40
	}
	if text == "" {
		return OutputPlan{Budget: budget}
	}

	lines := WrapBudget(text, budget)
	display := len(lines)
	if display < MinOutputLines {
		display = MinOutputLines
	}
	if display > MaxOutputLines {
		display = MaxOutputLines
	}

	return OutputPlan{
		Budget:  budget,
		Lines:   lines,
		Display: display,
		Height:  OutputHeaderHeight + display*OutputLineHeight + OutputBottomPad,
	}
}

// WrapBudget wraps text at a character-count budget, breaking on spaces when
// possible and hard-breaking words longer than the budget. Explicit newlines
// in the text are respected.
func WrapBudget(text string, budget int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		runes := []rune(para)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for len(runes) > budget {
			cut := budget
			for i := budget; i > 0; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, strings.TrimRight(string(runes[:cut]), " "))
			for cut < len(runes) && runes[cut] == ' ' {
				cut++
			}
			runes = runes[cut:]
		}
		out = append(out, string(runes))
	}
	return out
}

// Tail returns the last n lines, the tail-truncated scrolling window of the
// output box.
func Tail(lines []string, n int) []string {
	if n >= len(lines) {
		return lines
	}
	return lines[len(lines)-n:]
}

// CodeCardHeight sizes the code card once per run: enough for the scroll
// window that will actually be used plus the output box, never below the
// product minimum.
func CodeCardHeight(lineCount, visibleCount int, plan OutputPlan) int {
	rows := lineCount
	if rows > visibleCount {
		rows = visibleCount
	}
	if rows < 1 {
		rows = 1
	}
	h := CodeHeaderOffset + rows*CodeLineHeight
	if len(plan.Lines) > 0 {
		h += OutputGap + plan.Height
	}
	h += OutputBottomPad
	if h < MinCodeCardHeight {
		h = MinCodeCardHeight
	}
	return h
}
