package director

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WriteStoryboard writes a storyboard to a YAML file
func WriteStoryboard(sb *Storyboard, path string) error {
	data, err := yaml.Marshal(sb)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadStoryboard reads a storyboard from a YAML file
func ReadStoryboard(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sb Storyboard
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return nil, err
	}

	return &sb, nil
}
