package renderer

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/code2video/internal/config"
	"github.com/ivlev/code2video/internal/content"
	"github.com/ivlev/code2video/internal/effects"
	"github.com/ivlev/code2video/internal/highlight"
	"github.com/ivlev/code2video/internal/layout"
	"github.com/ivlev/code2video/internal/theme"
	"github.com/ivlev/code2video/internal/typing"
)

// Baseline drops from a row's top for the code and output faces.
const (
	codeAscent   = 34.0
	outputAscent = 32.0
)

// Renderer composes frames for one run. Everything it holds is fixed at
// construction, so RenderFrame is a pure function of its FrameState and
// frames may be rendered concurrently and in any order.
type Renderer struct {
	cfg    config.Config
	scheme theme.Scheme
	pal    theme.Palette
	rec    content.Record
	fonts  *FontSet

	strategy highlight.Strategy
	stack    []effects.Effect

	codeLines   []string
	outputRunes []rune
	outPlan     layout.OutputPlan

	titleLines []string
	titleCardH float64
	codeCardH  float64

	qr *gg.ImageBuf
}

// FrameState is everything that changes between frames. The engine derives
// it from the typing machine, the scroll window and the timeline.
type FrameState struct {
	Snapshot   []string // typed prefix per line
	ActiveLine int
	Offset     int // scroll offset, first visible line
	TypedChars int
	CursorOn   bool

	OutputChars int
	ShowOutput  bool

	Elapsed float64
	Total   float64
}

// New prepares the per-run rendering state: palette, highlight strategy,
// background stack, wrapped title, output plan and card sizes.
func New(cfg config.Config, scheme theme.Scheme, rec content.Record, fonts *FontSet) (*Renderer, error) {
	pal, err := scheme.Decode()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:         cfg,
		scheme:      scheme,
		pal:         pal,
		rec:         rec,
		fonts:       fonts,
		strategy:    highlight.NewStrategy(rec.Language, highlight.DefaultColors(pal)),
		stack:       effects.Stack(scheme.Name),
		codeLines:   typing.SplitCode(rec.Code),
		outputRunes: []rune(rec.Output),
		outPlan:     layout.PlanOutput(rec.Output, 0),
	}

	title := fmt.Sprintf("Day %d: %s", rec.Day, rec.Title)
	r.titleLines = layout.WrapWords(title, float64(cfg.Width-180), measureWith(fonts.Title))
	r.titleCardH = float64(layout.TitleCardHeight(len(r.titleLines)))
	r.codeCardH = float64(layout.CodeCardHeight(len(r.codeLines), cfg.VisibleLines, r.outPlan))

	if cfg.ChannelURL != "" {
		q, err := qrcode.New(cfg.ChannelURL, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("QR-код для %s не построился: %w", cfg.ChannelURL, err)
		}
		r.qr = gg.ImageBufFromImage(q.Image(qrSize))
	}

	return r, nil
}

// CodeLines returns the listing exactly as the renderer will type it.
func (r *Renderer) CodeLines() []string {
	return r.codeLines
}

// OutputLen is the reveal length the output phase counts up to.
func (r *Renderer) OutputLen() int {
	return len(r.outputRunes)
}

// RenderFrame draws one complete frame. Identical states produce
// byte-identical frames; nothing is carried over between calls.
func (r *Renderer) RenderFrame(st FrameState) image.Image {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)

	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)

	p := effects.Params{Width: r.cfg.Width, Height: r.cfg.Height, Elapsed: st.Elapsed, Palette: r.pal}
	for _, e := range r.stack {
		e.Draw(dc, p)
	}

	// Dark wash so the cards read over a busy background
	dc.SetRGBA(0, 0, 0, 100.0/255)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	dx, dy := Parallax(st.Elapsed)

	drawTitleCard(dc, titleX+dx, titleY+dy, r.titleLines, r.titleCardH, r.pal, r.fonts)
	r.drawCodeCard(dc, st, dx, dy)
	drawCTA(dc, ctaMarginX+dx, h-ctaBottomGap-dy, r.rec.Day, r.qr, r.pal, r.fonts)
	drawProgressBar(dc, st.Elapsed, st.Total, r.pal)

	return dc.Image()
}

func (r *Renderer) drawCodeCard(dc *gg.Context, st FrameState, dx, dy float64) {
	w := float64(r.cfg.Width)
	cardW := w * codeCardShare
	cardX := (w-cardW)/2 - dx
	cardY := codeCardY + dy/2

	glassCard(dc, cardX, cardY, cardW, r.codeCardH, r.pal)
	drawBadge(dc, cardX+badgeX, cardY+badgeY, r.rec.Day, BadgePulse(st.TypedChars), r.pal, r.fonts)

	last := st.Offset + r.cfg.VisibleLines
	if last > len(st.Snapshot) {
		last = len(st.Snapshot)
	}

	for row, idx := 0, st.Offset; idx < last; row, idx = row+1, idx+1 {
		rowTop := cardY + layout.CodeHeaderOffset + float64(row*layout.CodeLineHeight)
		baseline := rowTop + codeAscent

		if idx == st.ActiveLine {
			setRGBA(dc, r.pal.Accent, 0.10)
			dc.DrawRoundedRectangle(cardX+20, rowTop-8, cardW-40, layout.CodeLineHeight-8, 8)
			dc.Fill()
		}

		dc.SetFont(r.fonts.LineNo)
		setRGBA(dc, r.pal.Text, 0.35)
		dc.DrawStringAnchored(fmt.Sprintf("%2d", idx+1), cardX+45, baseline, 1, 0)

		dc.SetFont(r.fonts.Code)
		x := cardX + layout.CodeLeftMargin
		for _, seg := range r.strategy.Line(st.Snapshot[idx]) {
			if seg.Text == "" {
				continue
			}
			setRGBA(dc, seg.Color, 60.0/255)
			for _, off := range [][2]float64{{2, 2}, {-2, 2}, {2, -2}, {-2, -2}} {
				dc.DrawString(seg.Text, x+off[0], baseline+off[1])
			}
			setRGBA(dc, seg.Color, 1)
			dc.DrawString(seg.Text, x, baseline)

			segW, _ := dc.MeasureString(seg.Text)
			x += segW
		}

		if idx == st.ActiveLine && st.CursorOn && !st.ShowOutput {
			setRGBA(dc, r.pal.Accent, 0.9)
			dc.DrawRectangle(x+4, rowTop, 20, 46)
			dc.Fill()
		}
	}

	if st.ShowOutput && len(r.outputRunes) > 0 {
		r.drawOutputBox(dc, st, cardX, cardY, cardW)
	}
}

func (r *Renderer) drawOutputBox(dc *gg.Context, st FrameState, cardX, cardY, cardW float64) {
	rows := len(r.codeLines)
	if rows > r.cfg.VisibleLines {
		rows = r.cfg.VisibleLines
	}
	boxX := cardX + 35
	boxY := cardY + layout.CodeHeaderOffset + float64(rows*layout.CodeLineHeight) + layout.OutputGap
	boxW := cardW - 70
	boxH := float64(r.outPlan.Height)

	// Halo first, then the box body over it
	for off := 10.0; off > 0; off -= 2 {
		setRGBA(dc, outputGreen, (100-off*10)/255)
		dc.DrawRoundedRectangle(boxX-off, boxY-off, boxW+2*off, boxH+2*off, 20)
		dc.Fill()
	}
	dc.SetRGBA(0, 50.0/255, 25.0/255, 200.0/255)
	dc.DrawRoundedRectangle(boxX, boxY, boxW, boxH, 20)
	dc.Fill()

	drawPlayMark(dc, boxX+30, boxY+36, 26)
	dc.SetFont(r.fonts.Output)
	setRGBA(dc, outputGreen, 1)
	dc.DrawString("OUTPUT:", boxX+75, boxY+46)

	revealed := string(r.outputRunes[:st.OutputChars])
	shown := layout.Tail(layout.WrapBudget(revealed, r.outPlan.Budget), r.outPlan.Display)

	setRGBA(dc, r.pal.Text, 1)
	lastX := boxX + 30
	lastTop := boxY + layout.OutputHeaderHeight
	for i, line := range shown {
		rowTop := boxY + layout.OutputHeaderHeight + float64(i*layout.OutputLineHeight)
		dc.DrawString(line, boxX+30, rowTop+outputAscent)

		lineW, _ := dc.MeasureString(line)
		lastX = boxX + 30 + lineW
		lastTop = rowTop
	}

	// Reveal cursor sits after the newest character until the text completes
	if st.OutputChars < len(r.outputRunes) && st.CursorOn {
		setRGBA(dc, outputGreen, 0.9)
		dc.DrawRectangle(lastX+4, lastTop, 16, 38)
		dc.Fill()
	}
}
