package effects

import (
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/ivlev/code2video/internal/theme"
)

// Params carries everything a background layer may read. Layers must stay
// pure functions of Params: equal values draw identical pixels, which keeps
// whole frames reproducible and safe to render out of order.
type Params struct {
	Width   int
	Height  int
	Elapsed float64
	Palette theme.Palette
}

// Effect draws one full-canvas decoration pass.
type Effect interface {
	Name() string
	Draw(dc *gg.Context, p Params)
}

// Stack returns the background layers for a scheme, back to front. The cold
// schemes get falling-code rain, the warm ones a circuit board.
func Stack(schemeName string) []Effect {
	switch strings.ToLower(schemeName) {
	case "matrix", "cyber", "ice":
		return []Effect{&Gradient{}, &Rain{}}
	default:
		return []Effect{&Gradient{}, &Circuit{}}
	}
}

// Gradient fills the canvas with a vertical bg1→bg2 gradient whose hue
// drifts slowly with elapsed time.
type Gradient struct{}

func (e *Gradient) Name() string { return "gradient" }

func (e *Gradient) Draw(dc *gg.Context, p Params) {
	drift := 12 * math.Sin(p.Elapsed*0.35)

	top := hueShift(p.Palette.BG1, drift)
	bottom := hueShift(p.Palette.BG2, drift)

	grad := gg.NewLinearGradientBrush(0, 0, 0, float64(p.Height)).
		AddColorStop(0, top).
		AddColorStop(1, bottom)
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, float64(p.Width), float64(p.Height))
	dc.Fill()
}

// hueShift rotates a color's hue by delta degrees, keeping saturation and
// lightness.
func hueShift(c theme.RGB, delta float64) gg.RGBA {
	h, s, l := rgbToHSL(c)
	return gg.HSL(h+delta, s, l)
}

func rgbToHSL(c theme.RGB) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, l
}

func accent(p Params, alpha float64) gg.RGBA {
	return gg.RGBA{
		R: float64(p.Palette.Accent.R) / 255,
		G: float64(p.Palette.Accent.G) / 255,
		B: float64(p.Palette.Accent.B) / 255,
		A: alpha,
	}
}
