package typing

import (
	"strings"
	"testing"
)

// TestHelloWorldScenario walks the canonical 10-second run: 300 frames at
// 30fps split 180/90/30 between code, output and hold.
func TestHelloWorldScenario(t *testing.T) {
	code := "print('Hello, World!')"
	output := "Hello, World!"
	lines := SplitCode(code)
	m := NewMachine(lines, DefaultRate)

	const (
		totalFrames = 300
		codeEnd     = 180
		outputEnd   = 270
	)

	var snapAt0, snapAt179 []string
	for frame := 0; frame < totalFrames; frame++ {
		if frame < codeEnd {
			m.Tick()
		} else {
			m.ForceComplete()
		}

		switch frame {
		case 0:
			snapAt0 = m.Snapshot()
		case 179:
			snapAt179 = m.Snapshot()
		}
	}

	if len(snapAt0) != 1 || snapAt0[0] != "" {
		t.Errorf("Frame 0 snapshot should be [\"\"], got %q", snapAt0)
	}
	if len(snapAt179) != 1 || snapAt179[0] != code {
		t.Errorf("Frame 179 should be fully typed, got %q", snapAt179)
	}
	if !m.Done() {
		t.Error("Machine should be done after the run")
	}

	progress := OutputProgress(200, codeEnd, outputEnd-codeEnd, len(output))
	if progress != 2 {
		t.Errorf("Output progress at frame 200 should be 2, got %d", progress)
	}
	if output[:progress] != "He" {
		t.Errorf("Revealed output at frame 200 should be \"He\", got %q", output[:progress])
	}
	t.Logf("Frame 200 shows %q", output[:progress])
}

func TestSnapshotMonotonic(t *testing.T) {
	code := "def greet(name):\n    msg = f'Hello {name}'\n\n    print(msg)\n    return 42"
	lines := SplitCode(code)
	m := NewMachine(lines, DefaultRate)

	prev := make([]string, len(lines))
	for frame := 0; frame < 500; frame++ {
		m.Tick()
		snap := m.Snapshot()
		for i := range snap {
			if !strings.HasPrefix(lines[i], snap[i]) {
				t.Fatalf("Frame %d line %d: %q is not a prefix of %q", frame, i, snap[i], lines[i])
			}
			if !strings.HasPrefix(snap[i], prev[i]) {
				t.Fatalf("Frame %d line %d: progress shrank from %q to %q", frame, i, prev[i], snap[i])
			}
			if prev[i] == lines[i] && snap[i] != lines[i] {
				t.Fatalf("Frame %d line %d: completed line regressed", frame, i)
			}
		}
		prev = snap
	}

	if !m.Done() {
		t.Error("500 frames should be plenty to finish typing")
	}
	for i, s := range prev {
		if s != lines[i] {
			t.Errorf("Line %d not fully typed: %q", i, s)
		}
	}
}

func TestWhitespaceLinesConsumeOneTick(t *testing.T) {
	lines := []string{"x", "   ", "\t", "ok"}
	m := NewMachine(lines, DefaultRate)

	// Drive through "x" until the machine sits on the whitespace line
	for ticks := 0; m.ActiveLine() != 1; ticks++ {
		if ticks > 20 {
			t.Fatal("Machine never reached the whitespace line")
		}
		m.Tick()
	}

	m.Tick() // consumes "   "
	if m.ActiveLine() != 2 {
		t.Fatalf("Whitespace line should take exactly one tick, active=%d", m.ActiveLine())
	}
	if m.Snapshot()[1] != "   " {
		t.Errorf("Whitespace line should be snapshotted verbatim, got %q", m.Snapshot()[1])
	}

	m.Tick() // consumes "\t"
	if m.ActiveLine() != 3 {
		t.Fatalf("Tab line should take exactly one tick, active=%d", m.ActiveLine())
	}
}

func TestForceComplete(t *testing.T) {
	lines := SplitCode("a = 1\nb = 2\nc = 3")
	m := NewMachine(lines, DefaultRate)

	m.Tick()
	m.ForceComplete()

	if !m.Done() {
		t.Error("ForceComplete should finish the machine")
	}
	for i, s := range m.Snapshot() {
		if s != lines[i] {
			t.Errorf("Line %d should be complete, got %q", i, s)
		}
	}
	if m.ActiveLine() != len(lines)-1 {
		t.Errorf("Active line after completion should be the last, got %d", m.ActiveLine())
	}

	// Ticking a done machine is a no-op
	m.Tick()
	if m.Snapshot()[0] != lines[0] {
		t.Error("Tick after completion must not disturb the snapshot")
	}
}

func TestEmptyCodeReachesHold(t *testing.T) {
	lines := SplitCode("")
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("Empty code should split to one empty line, got %q", lines)
	}

	m := NewMachine(lines, DefaultRate)
	m.Tick()
	if !m.Done() {
		t.Error("Single empty line should complete in one tick")
	}
	if m.ActiveLine() != 0 {
		t.Errorf("Active line should stay 0, got %d", m.ActiveLine())
	}

	// NewMachine guards a nil slice the same way
	m2 := NewMachine(nil, 0)
	m2.Tick()
	if !m2.Done() {
		t.Error("Nil lines should degrade to a single empty line")
	}
}

func TestTypedChars(t *testing.T) {
	m := NewMachine([]string{"abcd"}, DefaultRate)
	last := 0
	for frame := 0; frame < 12; frame++ {
		m.Tick()
		n := m.TypedChars()
		if n < last {
			t.Fatalf("TypedChars decreased: %d after %d", n, last)
		}
		last = n
	}
	if last != 4 {
		t.Errorf("Expected 4 typed chars, got %d", last)
	}
}

func TestOutputProgress(t *testing.T) {
	const codeEnd, outputFrames, outputLen = 180, 90, 13

	prev := 0
	for frame := 0; frame < 320; frame++ {
		p := OutputProgress(frame, codeEnd, outputFrames, outputLen)
		if p < prev {
			t.Fatalf("Frame %d: progress decreased %d -> %d", frame, prev, p)
		}
		if p > outputLen {
			t.Fatalf("Frame %d: progress %d exceeds output length", frame, p)
		}
		if frame < codeEnd && p != 0 {
			t.Fatalf("Frame %d: progress before the output phase should be 0, got %d", frame, p)
		}
		prev = p
	}

	if got := OutputProgress(codeEnd+outputFrames, codeEnd, outputFrames, outputLen); got != outputLen {
		t.Errorf("Progress at the phase end should reach %d, got %d", outputLen, got)
	}
	if got := OutputProgress(300, codeEnd, outputFrames, 0); got != 0 {
		t.Errorf("Empty output should stay at 0, got %d", got)
	}
}
