package renderer

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/ivlev/code2video/internal/layout"
	"github.com/ivlev/code2video/internal/theme"
)

// Canvas geometry of the short format. Cards keep their 1080x1920 positions
// and sway around them with the parallax offsets.
const (
	titleX = 40.0
	titleY = 120.0

	codeCardY     = 380.0
	codeCardShare = 0.92 // code card width as a share of the canvas

	badgeX = 40.0 // relative to the code card
	badgeY = 35.0
	badgeW = 180.0
	badgeH = 90.0

	ctaMarginX   = 30.0
	ctaBottomGap = 280.0
	ctaHeight    = 220.0
	qrSize       = 160

	cardRadius     = 25.0
	progressHeight = 12.0
	glassAlpha     = 0.72

	// Baseline drop from a text row's top for the 65pt title face.
	titleAscent = 52.0
)

// outputGreen is the fixed product color of the output box chrome.
var outputGreen = theme.RGB{R: 0x00, G: 0xff, B: 0x88}

func setRGBA(dc *gg.Context, c theme.RGB, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}

// glassCard paints the frosted panel every card sits on: a translucent base
// and an accent border glow that brightens toward the inner ring.
func glassCard(dc *gg.Context, x, y, w, h float64, pal theme.Palette) {
	setRGBA(dc, pal.BG2, glassAlpha)
	dc.DrawRoundedRectangle(x, y, w, h, cardRadius)
	dc.Fill()

	dc.SetLineWidth(3)
	for off := 10.0; off > 0; off -= 2 {
		setRGBA(dc, pal.Accent, (80-off*8)/255)
		dc.DrawRoundedRectangle(x+off, y+off, w-2*off, h-2*off, cardRadius)
		dc.Stroke()
	}
}

// drawBadge paints the DAY N pill with its glow halo. The halo alpha scales
// with the typing pulse.
func drawBadge(dc *gg.Context, x, y float64, day int, pulse float64, pal theme.Palette, fonts *FontSet) {
	for off := 12.0; off >= 3; off -= 3 {
		base := math.Max(0, 150-off*12) / 255
		setRGBA(dc, pal.Badge, base*lerp(0.4, 1.0, pulse))
		dc.DrawRoundedRectangle(x-off, y-off, badgeW+2*off, badgeH+2*off, cardRadius)
		dc.Fill()
	}

	setRGBA(dc, pal.Badge, 1)
	dc.DrawRoundedRectangle(x, y, badgeW, badgeH, cardRadius)
	dc.Fill()

	dc.SetFont(fonts.Day)
	setRGBA(dc, pal.Text, 1)
	dc.DrawStringAnchored(fmt.Sprintf("DAY %d", day), x+badgeW/2, y+65, 0.5, 0)
}

// drawTitleCard paints the wrapped, glow-outlined title. Lines were wrapped
// once per run; the card height follows the line count.
func drawTitleCard(dc *gg.Context, x, y float64, lines []string, cardH float64, pal theme.Palette, fonts *FontSet) {
	w := float64(dc.Width()) - 2*titleX
	glassCard(dc, x, y, w, cardH, pal)

	dc.SetFont(fonts.Title)
	for i, line := range lines {
		baseline := y + layout.TitlePadding + float64(i)*layout.TitleLineHeight + titleAscent

		setRGBA(dc, pal.Accent, 80.0/255)
		for _, off := range [][2]float64{{3, 3}, {-3, 3}, {3, -3}, {-3, -3}} {
			dc.DrawStringAnchored(line, x+w/2+off[0], baseline+off[1], 0.5, 0)
		}
		setRGBA(dc, pal.Text, 1)
		dc.DrawStringAnchored(line, x+w/2, baseline, 0.5, 0)
	}
}

// drawCTA paints the call-to-action strip: like/follow line, the next-day
// teaser, and the channel QR code when one was generated.
func drawCTA(dc *gg.Context, x, y float64, day int, qr *gg.ImageBuf, pal theme.Palette, fonts *FontSet) {
	w := float64(dc.Width()) - 2*ctaMarginX
	glassCard(dc, x, y, w, ctaHeight, pal)

	textCenter := x + w/2
	if qr != nil {
		qrX := x + w - float64(qrSize) - 30
		qrY := y + (ctaHeight-float64(qrSize))/2
		dc.DrawImage(qr, qrX, qrY)
		textCenter = x + (w-float64(qrSize)-30)/2
	}

	dc.SetFont(fonts.CTA)
	setRGBA(dc, pal.Text, 1)
	dc.DrawStringAnchored("LIKE & FOLLOW", textCenter, y+90, 0.5, 0)

	dc.SetFont(fonts.Sub)
	setRGBA(dc, pal.Accent, 1)
	dc.DrawStringAnchored(fmt.Sprintf("Day %d Coming Soon!", day+1), textCenter, y+170, 0.5, 0)
}

// drawPlayMark paints the ▶ of the output header as a path so the mark never
// depends on font glyph coverage.
func drawPlayMark(dc *gg.Context, x, y, size float64) {
	dc.MoveTo(x, y-size/2)
	dc.LineTo(x+size*0.85, y)
	dc.LineTo(x, y+size/2)
	dc.ClosePath()
	setRGBA(dc, outputGreen, 1)
	dc.Fill()
}

// drawProgressBar paints the top playback bar: a dim full-width track and a
// filled span proportional to elapsed time.
func drawProgressBar(dc *gg.Context, elapsed, total float64, pal theme.Palette) {
	w := float64(dc.Width())

	setRGBA(dc, pal.Accent, 0.15)
	dc.DrawRectangle(0, 0, w, progressHeight)
	dc.Fill()

	frac := 0.0
	if total > 0 {
		frac = math.Min(1, elapsed/total)
	}
	setRGBA(dc, pal.Accent, 0.9)
	dc.DrawRectangle(0, 0, frac*w, progressHeight)
	dc.Fill()
}
