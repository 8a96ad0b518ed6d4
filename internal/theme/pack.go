package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is an on-disk scheme collection.
type Pack struct {
	Schemes []Scheme `yaml:"schemes"`
}

// LoadPack reads a YAML scheme pack and validates every scheme in it.
func LoadPack(path string) ([]Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme pack: %w", err)
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing theme pack: %w", err)
	}
	for _, s := range pack.Schemes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return pack.Schemes, nil
}

// Merge overlays user schemes on the base set. A user scheme with a known
// name replaces the builtin; new names are appended in file order.
func Merge(base, extra []Scheme) []Scheme {
	out := make([]Scheme, len(base))
	copy(out, base)
	for _, s := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == s.Name {
				out[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out
}
