package typing

import "strings"

// UnitsPerChar is the fixed-point denominator of the character accumulator.
// One character is 16 units; the default rate of half a character per frame
// is 8 units. Integer arithmetic keeps thousand-frame runs drift-free.
const UnitsPerChar = 16

// DefaultRate is the accumulator increment per frame: 0.5 characters.
const DefaultRate = UnitsPerChar / 2

// Machine advances the typed snapshot of a code listing one frame at a time.
// It is deliberately dumb about time: the caller decides how many ticks
// happen and when typing is force-completed at a phase boundary.
type Machine struct {
	lines    []string
	runes    [][]rune
	snapshot []string
	line     int // current line index, == len(lines) when typing is done
	accum    int // fixed-point units accumulated on the current line
	rate     int
}

// NewMachine builds a machine over code lines. Empty input degrades to a
// single empty line so a run always reaches the hold state. A rate of zero
// or less falls back to the default.
func NewMachine(lines []string, rate int) *Machine {
	if len(lines) == 0 {
		lines = []string{""}
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	m := &Machine{
		lines:    lines,
		runes:    make([][]rune, len(lines)),
		snapshot: make([]string, len(lines)),
		rate:     rate,
	}
	for i, l := range lines {
		m.runes[i] = []rune(l)
	}
	return m
}

// SplitCode turns a code string into machine lines, [""] when empty.
func SplitCode(code string) []string {
	return strings.Split(code, "\n")
}

// Tick advances typing by one frame. Whitespace-only lines consume the tick
// and complete immediately; other lines reveal rate/UnitsPerChar characters.
func (m *Machine) Tick() {
	if m.line >= len(m.lines) {
		return
	}

	if strings.TrimSpace(m.lines[m.line]) == "" {
		m.snapshot[m.line] = m.lines[m.line]
		m.line++
		m.accum = 0
		return
	}

	chars := m.accum / UnitsPerChar
	if chars <= len(m.runes[m.line]) {
		m.snapshot[m.line] = string(m.runes[m.line][:chars])
		m.accum += m.rate
		return
	}

	// Floor passed the end of the line: close it out and move on.
	m.snapshot[m.line] = m.lines[m.line]
	m.line++
	m.accum = 0
}

// ForceComplete snaps every line to fully typed. Called at the code phase
// boundary so output and hold frames always show the whole listing.
func (m *Machine) ForceComplete() {
	copy(m.snapshot, m.lines)
	m.line = len(m.lines)
	m.accum = 0
}

// Done reports whether every line has been typed.
func (m *Machine) Done() bool {
	return m.line >= len(m.lines)
}

// ActiveLine is the line currently receiving characters, or the last line
// once typing is complete.
func (m *Machine) ActiveLine() int {
	if m.line >= len(m.lines) {
		return len(m.lines) - 1
	}
	return m.line
}

// Lines returns the full, immutable listing.
func (m *Machine) Lines() []string {
	return m.lines
}

// Snapshot returns a copy of the per-line typed prefixes. Entries past the
// active line are still empty.
func (m *Machine) Snapshot() []string {
	out := make([]string, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

// TypedChars counts every character typed so far, across lines.
func (m *Machine) TypedChars() int {
	n := 0
	for _, s := range m.snapshot {
		n += len([]rune(s))
	}
	return n
}

// OutputProgress derives revealed output characters for a frame. The count
// grows linearly across the output phase and clamps at outputLen.
func OutputProgress(frame, codeEnd, outputFrames, outputLen int) int {
	if outputLen <= 0 || outputFrames <= 0 || frame < codeEnd {
		return 0
	}
	p := (frame - codeEnd) * outputLen / outputFrames
	if p > outputLen {
		p = outputLen
	}
	return p
}
