package theme

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

// ErrInvalidColorFormat reports a scheme color that is not a 6-hex-digit RGB string.
var ErrInvalidColorFormat = errors.New("invalid color format")

// RGB is a decoded 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Parse decodes a "#rrggbb" or "rrggbb" string into an RGB value.
func Parse(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	var bytes [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(hex[i*2])
		lo, ok2 := hexDigit(hex[i*2+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
		}
		bytes[i] = hi<<4 | lo
	}
	return RGB{R: bytes[0], G: bytes[1], B: bytes[2]}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Scheme is one named color scheme. All fields are 6-hex-digit RGB strings.
type Scheme struct {
	Name   string `yaml:"name"`
	BG1    string `yaml:"bg1"`
	BG2    string `yaml:"bg2"`
	Accent string `yaml:"accent"`
	Badge  string `yaml:"badge"`
	Text   string `yaml:"text"`
}

// Palette is a Scheme with every field decoded.
type Palette struct {
	BG1, BG2, Accent, Badge, Text RGB
}

// Validate parses every color field and fails on the first malformed one.
// A run must never start rendering with a half-valid scheme.
func (s Scheme) Validate() error {
	fields := []struct {
		name, val string
	}{
		{"bg1", s.BG1}, {"bg2", s.BG2}, {"accent", s.Accent}, {"badge", s.Badge}, {"text", s.Text},
	}
	for _, f := range fields {
		if _, err := Parse(f.val); err != nil {
			return fmt.Errorf("scheme %q, field %s: %w", s.Name, f.name, err)
		}
	}
	return nil
}

// Decode returns the fully parsed palette. Validate first; Decode repeats the
// same checks and reports the same errors.
func (s Scheme) Decode() (Palette, error) {
	var p Palette
	var err error
	if p.BG1, err = Parse(s.BG1); err != nil {
		return Palette{}, err
	}
	if p.BG2, err = Parse(s.BG2); err != nil {
		return Palette{}, err
	}
	if p.Accent, err = Parse(s.Accent); err != nil {
		return Palette{}, err
	}
	if p.Badge, err = Parse(s.Badge); err != nil {
		return Palette{}, err
	}
	if p.Text, err = Parse(s.Text); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// Builtin returns the stock scheme set in a fixed order.
func Builtin() []Scheme {
	return []Scheme{
		{Name: "matrix", BG1: "#001f0f", BG2: "#003820", Accent: "#00ff41", Badge: "#00cc88", Text: "#ffffff"},
		{Name: "cyber", BG1: "#0a0e27", BG2: "#1a1f4f", Accent: "#00d9ff", Badge: "#7b2fff", Text: "#ffffff"},
		{Name: "neon", BG1: "#1a0033", BG2: "#330066", Accent: "#ff00ff", Badge: "#00ffcc", Text: "#ffffff"},
		{Name: "sunset", BG1: "#1a0a00", BG2: "#4d1f00", Accent: "#ff6600", Badge: "#ffcc00", Text: "#ffffff"},
		{Name: "ice", BG1: "#001a33", BG2: "#003366", Accent: "#00ffff", Badge: "#3399ff", Text: "#ffffff"},
	}
}

// Find returns the scheme with the given name from the set.
func Find(set []Scheme, name string) (Scheme, bool) {
	for _, s := range set {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Scheme{}, false
}

// Pick deterministically selects a scheme for a title. The same title always
// maps to the same scheme so reruns produce identical videos.
func Pick(set []Scheme, title string) Scheme {
	if len(set) == 0 {
		return Builtin()[0]
	}
	h := fnv.New32a()
	h.Write([]byte(title))
	return set[int(h.Sum32())%len(set)]
}
