package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ivlev/code2video/internal/content"
)

const (
	maxTitleRunes = 100
	categoryHowTo = "27"
)

// Meta повторяет поля, которые ждет загрузчик YouTube.
type Meta struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	CategoryID    string   `json:"categoryId"`
	PrivacyStatus string   `json:"privacyStatus"`
}

var descriptionTmpl = template.Must(template.New("description").Parse(`Day {{.Day}}: {{.Title}}

{{.Script}}

Code from the video:
{{.Code}}
{{if .Output}}
Output:
{{.Output}}
{{end}}
New {{.LanguageName}} snippet every day. Like and follow for Day {{.NextDay}}!

#shorts #coding #{{.LanguageTag}} #programming #viral
`))

// Generate собирает метаданные ролика детерминированно: одинаковая
// запись дня дает одинаковый заголовок, описание и теги.
func Generate(rec content.Record) Meta {
	lang := languageName(rec.Language)

	title := fmt.Sprintf("Day %d: %s | %s Tutorial #shorts #viral #programming", rec.Day, rec.Title, lang)
	title = truncateRunes(title, maxTitleRunes)

	var buf bytes.Buffer
	err := descriptionTmpl.Execute(&buf, map[string]interface{}{
		"Day":          rec.Day,
		"NextDay":      rec.Day + 1,
		"Title":        rec.Title,
		"Script":       rec.ScriptText(),
		"Code":         rec.Code,
		"Output":       rec.Output,
		"LanguageName": lang,
		"LanguageTag":  languageTag(rec.Language),
	})
	if err != nil {
		// Шаблон статический, сюда попадает только программная ошибка.
		panic(err)
	}

	return Meta{
		Title:         title,
		Description:   buf.String(),
		Tags:          tags(rec),
		CategoryID:    categoryHowTo,
		PrivacyStatus: "public",
	}
}

func tags(rec content.Record) []string {
	return []string{
		"shorts",
		"coding",
		"programming",
		languageTag(rec.Language),
		"tutorial",
		"learntocode",
		"tech",
		"viral",
		fmt.Sprintf("day%d", rec.Day),
	}
}

func languageName(lang string) string {
	switch strings.ToLower(lang) {
	case "", "python":
		return "Python"
	case "go", "golang":
		return "Go"
	case "javascript", "js":
		return "JavaScript"
	default:
		return capitalize(lang)
	}
}

func languageTag(lang string) string {
	name := strings.ToLower(languageName(lang))
	return strings.ReplaceAll(name, " ", "")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SidecarPath кладет метаданные рядом с роликом: out/day12.mp4 ->
// out/day12.metadata.json.
func SidecarPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".metadata.json"
}

// WriteSidecar сохраняет метаданные JSON-файлом рядом с видео.
func WriteSidecar(meta Meta, videoPath string) (string, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	path := SidecarPath(videoPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("метаданные не записались: %w", err)
	}
	return path, nil
}
