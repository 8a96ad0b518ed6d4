package analyzer

import (
	"math"

	"github.com/ivlev/code2video/internal/theme"
)

// MinContrast is the minimum acceptable text/background contrast ratio.
// Below it the text color gets replaced before rendering starts.
const MinContrast = 4.5

// luminance computes relative luminance with sRGB linearization
func luminance(c theme.RGB) float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255.0
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the contrast ratio between two colors, 1.0 to 21.0
func ContrastRatio(a, b theme.RGB) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// midpoint blends two colors half and half
func midpoint(a, b theme.RGB) theme.RGB {
	return theme.RGB{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
	}
}

// CheckScheme measures text readability over the background gradient midpoint
func CheckScheme(p theme.Palette) (ratio float64, ok bool) {
	bg := midpoint(p.BG1, p.BG2)
	ratio = ContrastRatio(p.Text, bg)
	return ratio, ratio >= MinContrast
}

// ReadableText returns the palette text color when it is readable, otherwise
// whichever of white or black contrasts more with the background
func ReadableText(p theme.Palette) theme.RGB {
	if _, ok := CheckScheme(p); ok {
		return p.Text
	}
	bg := midpoint(p.BG1, p.BG2)
	white := theme.RGB{R: 255, G: 255, B: 255}
	black := theme.RGB{R: 0, G: 0, B: 0}
	if ContrastRatio(white, bg) >= ContrastRatio(black, bg) {
		return white
	}
	return black
}
