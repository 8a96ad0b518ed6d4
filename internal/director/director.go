package director

import (
	"fmt"
	"math"

	"github.com/ivlev/code2video/internal/typing"
)

// Phase is one of the three playback stages of a video.
type Phase int

const (
	PhaseCode Phase = iota
	PhaseOutput
	PhaseHold
)

func (p Phase) String() string {
	switch p {
	case PhaseCode:
		return "code"
	case PhaseOutput:
		return "output"
	default:
		return "hold"
	}
}

// Director plans the playback timeline of one video
type Director struct {
	FPS            int
	CodeFraction   float64 // share of frames spent typing code
	OutputFraction float64 // share of frames revealing output
	PacingBuffer   float64 // seconds added on top of the audio duration
}

// NewDirector creates a Director with the product defaults: 30fps,
// 60/30/10 phase split, 1.5s pacing buffer.
func NewDirector(fps int) *Director {
	return &Director{
		FPS:            fps,
		CodeFraction:   0.6,
		OutputFraction: 0.3,
		PacingBuffer:   1.5,
	}
}

// Timeline maps wall-clock playback time onto frame indices and phases.
// All fields are fixed once per run.
type Timeline struct {
	FPS          int     `yaml:"fps"`
	Duration     float64 `yaml:"duration"` // seconds, aligned to the frame grid
	TotalFrames  int     `yaml:"total_frames"`
	CodeFrames   int     `yaml:"code_frames"`
	OutputFrames int     `yaml:"output_frames"`
	HoldFrames   int     `yaml:"hold_frames"`
}

// Plan builds the timeline for a run. audioDuration <= 0 means the probe
// failed; the fallback replaces it and the pacing buffer is added either
// way. Without output the whole run is one long code phase.
func (d *Director) Plan(audioDuration, fallback float64, hasOutput bool) (Timeline, error) {
	if d.FPS <= 0 {
		return Timeline{}, fmt.Errorf("invalid fps: %d", d.FPS)
	}

	dur := audioDuration
	if dur <= 0 {
		dur = fallback
	}
	dur += d.PacingBuffer
	if dur <= 0 {
		return Timeline{}, fmt.Errorf("non-positive duration: %.3f", dur)
	}

	// Snap the duration to the frame grid so video and audio lengths agree
	fps := float64(d.FPS)
	dur = math.Round(dur*fps) / fps
	total := int(math.Round(dur * fps))
	if total < 1 {
		total = 1
		dur = 1.0 / fps
	}

	tl := Timeline{FPS: d.FPS, Duration: dur, TotalFrames: total}
	if hasOutput {
		tl.CodeFrames = int(float64(total) * d.CodeFraction)
		tl.OutputFrames = int(float64(total) * d.OutputFraction)
		tl.HoldFrames = total - tl.CodeFrames - tl.OutputFrames
	} else {
		tl.CodeFrames = total
	}
	return tl, nil
}

// PhaseAt returns the phase a frame belongs to.
func (tl Timeline) PhaseAt(frame int) Phase {
	switch {
	case frame < tl.CodeFrames:
		return PhaseCode
	case frame < tl.CodeFrames+tl.OutputFrames:
		return PhaseOutput
	default:
		return PhaseHold
	}
}

// CodeEnd is the first frame past the code phase.
func (tl Timeline) CodeEnd() int {
	return tl.CodeFrames
}

// OutputEnd is the first frame past the output phase.
func (tl Timeline) OutputEnd() int {
	return tl.CodeFrames + tl.OutputFrames
}

// ElapsedAt converts a frame index to elapsed seconds.
func (tl Timeline) ElapsedAt(frame int) float64 {
	return float64(frame) / float64(tl.FPS)
}

// SampleIndex maps continuous playback time to a frame index, clamped to
// the last frame so playback past the end freezes on it.
func (tl Timeline) SampleIndex(t float64) int {
	idx := int(math.Floor(t * float64(tl.FPS)))
	if idx < 0 {
		idx = 0
	}
	if idx >= tl.TotalFrames {
		idx = tl.TotalFrames - 1
	}
	return idx
}

// LineSchedule replays the typing rules against the timeline and records
// the frame span each code line occupies. Used for the storyboard export.
func (tl Timeline) LineSchedule(lines []string, rate int) []LinePlan {
	m := typing.NewMachine(lines, rate)

	plans := make([]LinePlan, len(m.Lines()))
	for i, l := range m.Lines() {
		plans[i] = LinePlan{Index: i, Text: l, Start: -1, End: -1}
	}

	prev := 0
	for frame := 0; frame < tl.CodeFrames && !m.Done(); frame++ {
		m.Tick()
		active := m.ActiveLine()
		if plans[active].Start == -1 {
			plans[active].Start = frame
		}
		if active != prev && prev < len(plans) {
			plans[prev].End = frame
		}
		prev = active
	}
	// Close out everything the code phase reached (or force-completion covers)
	for i := range plans {
		if plans[i].Start == -1 {
			plans[i].Start = tl.CodeFrames
		}
		if plans[i].End == -1 {
			plans[i].End = tl.CodeFrames
		}
	}
	return plans
}
