package renderer

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Face point sizes, tuned for the 1080x1920 canvas.
const (
	titleSize  = 65
	daySize    = 60
	codeSize   = 42
	lineNoSize = 30
	outputSize = 38
	ctaSize    = 52
	subSize    = 40
)

// FontSet holds the faces used across one run. Faces are immutable and
// safe to share between render workers.
type FontSet struct {
	Title  text.Face
	Day    text.Face
	Code   text.Face
	LineNo text.Face
	Output text.Face
	CTA    text.Face
	Sub    text.Face
}

// LoadFonts builds the run's font set. A non-empty path replaces the
// monospace family used for code text; the display faces always come from
// the embedded Go fonts. A broken path is an error, falling back is the
// caller's call.
func LoadFonts(monoPath string) (*FontSet, error) {
	var mono *text.FontSource
	var err error
	if monoPath != "" {
		mono, err = text.NewFontSourceFromFile(monoPath)
		if err != nil {
			return nil, fmt.Errorf("шрифт %s не загрузился: %w", monoPath, err)
		}
	} else {
		mono, err = text.NewFontSource(gomono.TTF)
		if err != nil {
			return nil, err
		}
	}

	sans, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, err
	}
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, err
	}
	monoBold, err := text.NewFontSource(gomonobold.TTF)
	if err != nil {
		return nil, err
	}

	return &FontSet{
		Title:  sans.Face(titleSize),
		Day:    sans.Face(daySize),
		Code:   mono.Face(codeSize),
		LineNo: mono.Face(lineNoSize),
		Output: monoBold.Face(outputSize),
		CTA:    sans.Face(ctaSize),
		Sub:    regular.Face(subSize),
	}, nil
}

// measureWith adapts a face to the layout engine's width callback.
func measureWith(face text.Face) func(string) float64 {
	return func(s string) float64 {
		w, _ := text.Measure(s, face)
		return w
	}
}
