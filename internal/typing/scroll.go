package typing

// ScrollMargin keeps the active line this many rows above the bottom of the
// viewport once scrolling starts.
const ScrollMargin = 3

// Window tracks the scroll offset for one run. The offset only ever grows:
// the viewport never scrolls back up, whatever the caller feeds in.
type Window struct {
	visible int
	offset  int
}

// NewWindow creates a viewport over visible rows.
func NewWindow(visible int) *Window {
	if visible < 1 {
		visible = 1
	}
	return &Window{visible: visible}
}

// Advance recomputes the offset for the active line and returns it.
func (w *Window) Advance(active int) int {
	target := active - (w.visible - ScrollMargin)
	if target < 0 {
		target = 0
	}
	if target > w.offset {
		w.offset = target
	}
	return w.offset
}

// Offset is the index of the first visible line.
func (w *Window) Offset() int {
	return w.offset
}

// Visible is the viewport row count.
func (w *Window) Visible() int {
	return w.visible
}

// VisibleSlice clamps lines[offset : offset+visible] to the listing bounds.
func VisibleSlice(lines []string, offset, visible int) []string {
	if offset >= len(lines) {
		return nil
	}
	end := offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end]
}

// CursorOn reports cursor visibility at elapsed seconds: the cursor toggles
// blinkRate times per second.
func CursorOn(elapsed, blinkRate float64) bool {
	return int(elapsed*blinkRate)%2 == 0
}
