package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

type Source interface {
	All() []Record
	Find(day int) (Record, bool)
}

type file struct {
	Days []Record `json:"days"`
}

// JSONSource reads and writes the days.json content store.
type JSONSource struct {
	path string
	days []Record
}

func NewJSONSource(path string) (*JSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл контента: %w", err)
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		// Hand-edited files routinely pick up trailing commas; repair and retry
		if err2 := json.Unmarshal(repairJSON(data), &f); err2 != nil {
			return nil, fmt.Errorf("повреждённый файл контента %s: %w", path, err)
		}
	}

	for i := range f.Days {
		if err := f.Days[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return &JSONSource{path: path, days: f.Days}, nil
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func repairJSON(data []byte) []byte {
	return trailingComma.ReplaceAll(data, []byte("$1"))
}

func (s *JSONSource) All() []Record {
	out := make([]Record, len(s.days))
	copy(out, s.days)
	return out
}

func (s *JSONSource) Find(day int) (Record, bool) {
	for _, r := range s.days {
		if r.Day == day {
			return r, true
		}
	}
	return Record{}, false
}

// Save writes the store back atomically: marshal to a sibling temp file,
// then rename over the original.
func (s *JSONSource) Save() error {
	data, err := json.MarshalIndent(file{Days: s.days}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".days-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
