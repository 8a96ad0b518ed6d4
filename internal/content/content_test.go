package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeriveOutput(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"hello world", "print('Hello, World!')", "Hello, World!"},
		{"double quotes", `print("Done")`, "Done"},
		{"expression", "x = 5\nprint(x)", "x"},
		{"no print", "x = 5\ny = x * 2", ""},
		{"long literal", "print('aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeee')", "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Day: 1, Title: "t", Code: tt.code}
			r.EnsureOutput()
			if r.Output != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, r.Output)
			}
		})
	}
}

func TestEnsureOutputKeepsExplicit(t *testing.T) {
	r := Record{Day: 1, Title: "t", Code: "print('x')", Output: "given"}
	r.EnsureOutput()
	if r.Output != "given" {
		t.Errorf("Explicit output should survive: got %q", r.Output)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Day: 3, Title: "Variables", Code: "x = 1"}
	if err := good.Validate(); err != nil {
		t.Errorf("Valid record rejected: %v", err)
	}

	bad := []Record{
		{Day: 0, Title: "t", Code: "c"},
		{Day: 1, Title: "  ", Code: "c"},
		{Day: 1, Title: "t", Code: ""},
	}
	for i, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("Record %d should be rejected", i)
		}
	}
}

func TestJSONSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.json")
	body := `{"days": [
		{"day": 1, "title": "Hello World", "code": "print('Hello, World!')"},
		{"day": 2, "title": "Variables", "language": "python", "code": "x = 5", "output": "5"}
	]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewJSONSource(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(src.All()) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(src.All()))
	}

	r, ok := src.Find(2)
	if !ok {
		t.Fatal("Day 2 not found")
	}
	if r.Title != "Variables" || r.Output != "5" {
		t.Errorf("Wrong record: %+v", r)
	}

	if _, ok := src.Find(99); ok {
		t.Error("Day 99 should not exist")
	}
}

func TestJSONSourceRepairsTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.json")
	body := "\xEF\xBB\xBF" + `{"days": [
		{"day": 1, "title": "Hello", "code": "print(1)",},
	]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewJSONSource(path)
	if err != nil {
		t.Fatalf("Repair should have saved the file: %v", err)
	}
	if len(src.All()) != 1 {
		t.Errorf("Expected 1 record after repair, got %d", len(src.All()))
	}
}

func TestJSONSourceRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.json")
	os.WriteFile(path, []byte("{days: nope"), 0644)

	if _, err := NewJSONSource(path); err == nil {
		t.Error("Unrepairable file should fail")
	}
}

func TestJSONSourceSaveAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "days.json")
	os.WriteFile(path, []byte(`{"days": [{"day": 1, "title": "T", "code": "c"}]}`), 0644)

	src, err := NewJSONSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The store must reload cleanly and no temp droppings may remain
	if _, err := NewJSONSource(path); err != nil {
		t.Fatalf("Saved file does not reload: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only days.json in %s, found %d entries", dir, len(entries))
	}
}

func TestScriptText(t *testing.T) {
	r := Record{Day: 4, Title: "Loops", Code: "for i in range(3): pass"}
	got := r.ScriptText()
	if got == "" {
		t.Fatal("Stock script should not be empty")
	}
	for _, want := range []string{"Day 4", "Loops", "Day 5"} {
		if !containsStr(got, want) {
			t.Errorf("Stock script should mention %q: %s", want, got)
		}
	}

	r.Script = "custom"
	if r.ScriptText() != "custom" {
		t.Error("Explicit script should win")
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
