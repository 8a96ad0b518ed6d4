package engine

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/code2video/internal/config"
	"github.com/ivlev/code2video/internal/content"
	"github.com/ivlev/code2video/internal/director"
	"github.com/ivlev/code2video/internal/renderer"
	"github.com/ivlev/code2video/internal/theme"
)

type fakeSource struct {
	records []content.Record
}

func (f fakeSource) All() []content.Record { return f.records }

func (f fakeSource) Find(day int) (content.Record, bool) {
	for _, r := range f.records {
		if r.Day == day {
			return r, true
		}
	}
	return content.Record{}, false
}

func helloRecord() content.Record {
	return content.Record{
		Day:      12,
		Title:    "Hello World",
		Language: "python",
		Code:     "greeting = 'Hello, World!'\nprint(greeting)",
		Output:   "Hello, World!",
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Width = 270
	cfg.Height = 480
	return cfg
}

func makeTestRenderer(t *testing.T, cfg config.Config, rec content.Record) *renderer.Renderer {
	t.Helper()
	fonts, err := renderer.LoadFonts("")
	if err != nil {
		t.Fatal(err)
	}
	r, err := renderer.New(cfg, theme.Builtin()[0], rec, fonts)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func planTimeline(t *testing.T, cfg config.Config, audio float64, hasOutput bool) director.Timeline {
	t.Helper()
	d := &director.Director{
		FPS:            cfg.FPS,
		CodeFraction:   cfg.CodeFraction,
		OutputFraction: cfg.OutputFraction,
		PacingBuffer:   0,
	}
	tl, err := d.Plan(audio, cfg.FallbackDuration, hasOutput)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestFrameStatesTimeline(t *testing.T) {
	cfg := testConfig()
	rec := helloRecord()
	r := makeTestRenderer(t, cfg, rec)
	tl := planTimeline(t, cfg, 10.0, true)

	states := frameStates(cfg, r, tl)
	if len(states) != tl.TotalFrames {
		t.Fatalf("состояний %d, кадров %d", len(states), tl.TotalFrames)
	}

	full := strings.Join(r.CodeLines(), "\n")
	prevTyped := 0
	prevElapsed := -1.0
	for i, st := range states {
		if st.TypedChars < prevTyped {
			t.Fatalf("кадр %d: набранные символы уменьшились с %d до %d", i, prevTyped, st.TypedChars)
		}
		prevTyped = st.TypedChars

		if st.Elapsed <= prevElapsed {
			t.Fatalf("кадр %d: время не растет (%f после %f)", i, st.Elapsed, prevElapsed)
		}
		prevElapsed = st.Elapsed

		if st.Total != tl.Duration {
			t.Fatalf("кадр %d: Total = %f, ожидалось %f", i, st.Total, tl.Duration)
		}

		phase := tl.PhaseAt(i)
		if phase == director.PhaseCode && st.ShowOutput {
			t.Fatalf("кадр %d: вывод показан во время набора", i)
		}
		if phase != director.PhaseCode {
			if !st.ShowOutput {
				t.Fatalf("кадр %d (%s): вывод должен быть показан", i, phase)
			}
			if got := strings.Join(st.Snapshot, "\n"); got != full {
				t.Fatalf("кадр %d: листинг не дописан:\n%s", i, got)
			}
		}
	}

	last := states[len(states)-1]
	if last.OutputChars != r.OutputLen() {
		t.Errorf("последний кадр открыл %d символов вывода из %d", last.OutputChars, r.OutputLen())
	}
	if states[0].OutputChars != 0 {
		t.Errorf("первый кадр уже открыл %d символов вывода", states[0].OutputChars)
	}
}

func TestFrameStatesScrolls(t *testing.T) {
	cfg := testConfig()
	rec := helloRecord()
	var b strings.Builder
	for i := 0; i < 30; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("value_")
		b.WriteByte(byte('a' + i%26))
		b.WriteString(" = ")
		b.WriteByte(byte('0' + i%10))
	}
	rec.Code = b.String()
	rec.Output = ""

	r := makeTestRenderer(t, cfg, rec)
	tl := planTimeline(t, cfg, 30.0, false)

	states := frameStates(cfg, r, tl)

	prevOffset := 0
	for i, st := range states {
		if st.Offset < prevOffset {
			t.Fatalf("кадр %d: окно откатилось с %d на %d", i, prevOffset, st.Offset)
		}
		prevOffset = st.Offset
	}

	wantOffset := 30 - 1 - (cfg.VisibleLines - 3)
	if got := states[len(states)-1].Offset; got != wantOffset {
		t.Errorf("финальное смещение %d, ожидалось %d", got, wantOffset)
	}
}

func TestTypingRate(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 8},
		{1.0, 16},
		{2.0, 32},
		{0.0, 1},
		{0.01, 1},
	}
	for _, tt := range tests {
		if got := typingRate(tt.in); got != tt.want {
			t.Errorf("typingRate(%v) = %d, ожидалось %d", tt.in, got, tt.want)
		}
	}
}

func TestSelectRecords(t *testing.T) {
	src := fakeSource{records: []content.Record{helloRecord()}}

	cfg := testConfig()
	cfg.Day = 12
	p := NewVideoProject(&cfg, src, nil, nil, nil)
	records, err := p.selectRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Day != 12 {
		t.Errorf("выбран не тот день: %+v", records)
	}

	cfg.Day = 99
	if _, err := p.selectRecords(); err == nil {
		t.Error("несуществующий день должен возвращать ошибку")
	}

	cfg.Day = 0
	records, err = p.selectRecords()
	if err != nil || len(records) != 1 {
		t.Errorf("режим всех дней: records=%v err=%v", records, err)
	}

	empty := NewVideoProject(&cfg, fakeSource{}, nil, nil, nil)
	if _, err := empty.selectRecords(); err == nil {
		t.Error("пустой контент должен возвращать ошибку")
	}
}

func TestOutputPath(t *testing.T) {
	cfg := testConfig()
	cfg.Day = 12
	cfg.OutputVideo = "out/custom.mp4"
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	if got := p.outputPath(helloRecord()); got != "out/custom.mp4" {
		t.Errorf("явный путь не уважен: %s", got)
	}

	cfg.Day = 0
	if got := p.outputPath(helloRecord()); got != filepath.Join("out", "day12.mp4") {
		t.Errorf("режим всех дней: %s", got)
	}

	cfg.OutputVideo = ""
	if got := p.outputPath(helloRecord()); got != filepath.Join("output", "day12.mp4") {
		t.Errorf("путь по умолчанию: %s", got)
	}
}

func TestResolveSchemeByName(t *testing.T) {
	cfg := testConfig()
	cfg.ThemeName = theme.Builtin()[1].Name
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	scheme, err := p.resolveScheme(helloRecord())
	if err != nil {
		t.Fatal(err)
	}
	if scheme.Name != cfg.ThemeName {
		t.Errorf("выбрана тема %s, запрошена %s", scheme.Name, cfg.ThemeName)
	}

	cfg.ThemeName = "no-such-theme"
	if _, err := p.resolveScheme(helloRecord()); err == nil {
		t.Error("несуществующая тема должна возвращать ошибку")
	}
}

func TestResolveSchemeFixesContrast(t *testing.T) {
	murky := theme.Scheme{
		Name:   "murky",
		BG1:    "#101020",
		BG2:    "#181828",
		Accent: "#00ff88",
		Badge:  "#ff3366",
		Text:   "#20203a",
	}
	cfg := testConfig()
	cfg.ThemeName = "murky"
	p := NewVideoProject(&cfg, nil, []theme.Scheme{murky}, nil, nil)

	scheme, err := p.resolveScheme(helloRecord())
	if err != nil {
		t.Fatal(err)
	}
	if scheme.Text == murky.Text {
		t.Error("нечитаемый цвет текста должен заменяться")
	}
	if scheme.Text != "#ffffff" {
		t.Errorf("на темном фоне ожидался белый, получен %s", scheme.Text)
	}
}

func TestWritePlan(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.PlanPath = dir
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	rec := helloRecord()
	tl := planTimeline(t, cfg, 10.0, true)

	if err := p.writePlan(rec, theme.Builtin()[0], tl, typingRate(cfg.TypingRate)); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("в папке %d файлов, ожидался 1", len(entries))
	}

	sb, err := director.ReadStoryboard(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if sb.Day != rec.Day || sb.Timeline.TotalFrames != tl.TotalFrames {
		t.Errorf("раскадровка потеряла данные: %+v", sb)
	}
	if len(sb.Lines) != 2 {
		t.Errorf("строк в плане %d, ожидалось 2", len(sb.Lines))
	}
	if len(sb.Phases) != 3 {
		t.Errorf("фаз в плане %d, ожидалось 3", len(sb.Phases))
	}
}

func TestLoadStoryboard(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.PlanPath = dir
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	rec := helloRecord()
	tl := planTimeline(t, cfg, 10.0, true)
	if err := p.writePlan(rec, theme.Builtin()[0], tl, typingRate(cfg.TypingRate)); err != nil {
		t.Fatal(err)
	}

	// Папка с раскадровками: должна подхватиться самая свежая.
	cfg.PlanInput = dir
	got, err := p.loadStoryboard(rec)
	if err != nil {
		t.Fatalf("раскадровка не загрузилась: %v", err)
	}
	if got.TotalFrames != tl.TotalFrames || got.FPS != tl.FPS {
		t.Errorf("таймлайн из раскадровки %+v, ожидался %+v", got, tl)
	}
}

func TestLoadStoryboardMissing(t *testing.T) {
	cfg := testConfig()
	cfg.PlanInput = filepath.Join(t.TempDir(), "storyboard_day1.yaml")
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	if _, err := p.loadStoryboard(helloRecord()); err == nil {
		t.Fatal("ожидалась ошибка чтения несуществующей раскадровки")
	}
}

func TestReorderFrames(t *testing.T) {
	imgs := make([]*image.RGBA, 6)
	for i := range imgs {
		imgs[i] = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	results := make(chan renderedFrame)
	frames := make(chan *image.RGBA, len(imgs))

	go func() {
		for _, i := range []int{2, 0, 1, 5, 4, 3} {
			results <- renderedFrame{index: i, img: imgs[i]}
		}
		close(results)
	}()

	if err := reorderFrames(context.Background(), results, frames); err != nil {
		t.Fatal(err)
	}

	n := 0
	for img := range frames {
		if img != imgs[n] {
			t.Errorf("кадр %d пришел не по порядку", n)
		}
		n++
	}
	if n != len(imgs) {
		t.Errorf("получено %d кадров, ожидалось %d", n, len(imgs))
	}
}

func TestDetectLanguage(t *testing.T) {
	cfg := testConfig()
	p := NewVideoProject(&cfg, nil, nil, nil, nil)

	rec := helloRecord()
	rec.Language = ""
	p.detectLanguage(&rec)
	if rec.Language != "python" {
		t.Errorf("определен язык %q, ожидался python", rec.Language)
	}

	rec.Language = "go"
	p.detectLanguage(&rec)
	if rec.Language != "go" {
		t.Error("явный язык записи не должен перетираться")
	}
}

func TestVoiceLabel(t *testing.T) {
	if got := voiceLabel(""); got != "нет" {
		t.Errorf("voiceLabel пустого пути = %q", got)
	}
	if got := voiceLabel("/tmp/voice_day12.mp3"); got != "voice_day12.mp3" {
		t.Errorf("voiceLabel = %q", got)
	}
}
