package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    RGB
		wantErr bool
	}{
		{"#00ff41", RGB{0, 255, 65}, false},
		{"00ff41", RGB{0, 255, 65}, false},
		{"#FFFFFF", RGB{255, 255, 255}, false},
		{"#000000", RGB{0, 0, 0}, false},
		{"#zz0000", RGB{}, true},
		{"#00ff4", RGB{}, true},
		{"#00ff411", RGB{}, true},
		{"", RGB{}, true},
		{"#", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidColorFormat) {
					t.Errorf("Parse(%q) error should wrap ErrInvalidColorFormat, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, expected %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSchemeValidate(t *testing.T) {
	for _, s := range Builtin() {
		if err := s.Validate(); err != nil {
			t.Errorf("builtin scheme %q should validate: %v", s.Name, err)
		}
		if _, err := s.Decode(); err != nil {
			t.Errorf("builtin scheme %q should decode: %v", s.Name, err)
		}
	}

	bad := Scheme{Name: "broken", BG1: "#001f0f", BG2: "#003820", Accent: "#zz0000", Badge: "#00cc88", Text: "#ffffff"}
	err := bad.Validate()
	if err == nil {
		t.Fatal("scheme with malformed accent should not validate")
	}
	if !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("expected ErrInvalidColorFormat, got %v", err)
	}
}

func TestPickDeterministic(t *testing.T) {
	set := Builtin()

	first := Pick(set, "Day 7: Loops in Python")
	for i := 0; i < 10; i++ {
		again := Pick(set, "Day 7: Loops in Python")
		if again.Name != first.Name {
			t.Fatalf("Pick is not deterministic: %s then %s", first.Name, again.Name)
		}
	}

	// Different titles should be able to land on different schemes
	names := map[string]bool{}
	titles := []string{"Loops", "Strings", "Recursion", "Sets", "Slices", "Maps", "Channels"}
	for _, title := range titles {
		names[Pick(set, title).Name] = true
	}
	if len(names) < 2 {
		t.Errorf("Expected some spread across schemes, all %d titles landed on one", len(titles))
	}
	t.Logf("Spread: %d distinct schemes over %d titles", len(names), len(titles))
}

func TestLoadPackMerge(t *testing.T) {
	dir := t.TempDir()
	packPath := filepath.Join(dir, "themes.yaml")

	yamlBody := `schemes:
  - name: matrix
    bg1: "#001100"
    bg2: "#002200"
    accent: "#33ff66"
    badge: "#22cc55"
    text: "#eeffee"
  - name: vapor
    bg1: "#170b2e"
    bg2: "#2d1657"
    accent: "#ff71ce"
    badge: "#01cdfe"
    text: "#fffb96"
`
	if err := os.WriteFile(packPath, []byte(yamlBody), 0644); err != nil {
		t.Fatalf("writing pack file: %v", err)
	}

	extra, err := LoadPack(packPath)
	if err != nil {
		t.Fatalf("LoadPack failed: %v", err)
	}
	if len(extra) != 2 {
		t.Fatalf("Expected 2 schemes, got %d", len(extra))
	}

	merged := Merge(Builtin(), extra)
	if len(merged) != len(Builtin())+1 {
		t.Errorf("Expected %d schemes after merge, got %d", len(Builtin())+1, len(merged))
	}

	m, ok := Find(merged, "matrix")
	if !ok {
		t.Fatal("matrix scheme missing after merge")
	}
	if m.BG1 != "#001100" {
		t.Errorf("user scheme should replace builtin, bg1 = %s", m.BG1)
	}

	if _, ok := Find(merged, "vapor"); !ok {
		t.Error("new user scheme should be appended")
	}
}

func TestLoadPackRejectsBadColor(t *testing.T) {
	dir := t.TempDir()
	packPath := filepath.Join(dir, "bad.yaml")

	yamlBody := `schemes:
  - name: broken
    bg1: "#001100"
    bg2: "#002200"
    accent: "nope"
    badge: "#22cc55"
    text: "#eeffee"
`
	if err := os.WriteFile(packPath, []byte(yamlBody), 0644); err != nil {
		t.Fatalf("writing pack file: %v", err)
	}

	_, err := LoadPack(packPath)
	if err == nil {
		t.Fatal("pack with malformed color should fail to load")
	}
	if !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("expected ErrInvalidColorFormat, got %v", err)
	}
}
