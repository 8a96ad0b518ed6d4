package engine

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/code2video/internal/analyzer"
	"github.com/ivlev/code2video/internal/config"
	"github.com/ivlev/code2video/internal/content"
	"github.com/ivlev/code2video/internal/director"
	"github.com/ivlev/code2video/internal/metadata"
	"github.com/ivlev/code2video/internal/renderer"
	"github.com/ivlev/code2video/internal/speech"
	"github.com/ivlev/code2video/internal/system"
	"github.com/ivlev/code2video/internal/theme"
	"github.com/ivlev/code2video/internal/typing"
	"github.com/ivlev/code2video/internal/video"
)

type VideoProject struct {
	Config  *config.Config
	Source  content.Source
	Themes  []theme.Scheme
	Synth   speech.Synthesizer
	Encoder video.Encoder
	Pool    *system.FramePool

	tempDir string
}

func NewVideoProject(cfg *config.Config, src content.Source, themes []theme.Scheme, synth speech.Synthesizer, enc video.Encoder) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Source:  src,
		Themes:  themes,
		Synth:   synth,
		Encoder: enc,
	}
}

func (p *VideoProject) Run(ctx context.Context) error {
	if err := p.Config.Validate(); err != nil {
		return err
	}

	records, err := p.selectRecords()
	if err != nil {
		return err
	}

	p.tempDir, err = os.MkdirTemp("", "code2video_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	for _, rec := range records {
		if err := p.renderDay(ctx, rec); err != nil {
			return fmt.Errorf("день %d: %w", rec.Day, err)
		}
	}
	return nil
}

func (p *VideoProject) selectRecords() ([]content.Record, error) {
	if p.Config.Day > 0 {
		rec, ok := p.Source.Find(p.Config.Day)
		if !ok {
			return nil, fmt.Errorf("день %d не найден в контенте", p.Config.Day)
		}
		return []content.Record{rec}, nil
	}
	all := p.Source.All()
	if len(all) == 0 {
		return nil, fmt.Errorf("контент пуст")
	}
	return all, nil
}

func (p *VideoProject) renderDay(ctx context.Context, rec content.Record) error {
	startTime := time.Now()

	rec.EnsureOutput()
	p.detectLanguage(&rec)

	scheme, err := p.resolveScheme(rec)
	if err != nil {
		return err
	}

	voicePath := p.resolveVoice(ctx, rec)
	if err := ctx.Err(); err != nil {
		return err
	}

	var tl director.Timeline
	if p.Config.PlanInput != "" {
		tl, err = p.loadStoryboard(rec)
		if err != nil {
			return err
		}
	} else {
		audioDur := 0.0
		if voicePath != "" {
			audioDur, err = system.AudioDuration(voicePath)
			if err != nil {
				fmt.Printf("[!] Длительность %s не определилась (%v), берется запасная\n", voicePath, err)
				audioDur = 0
			}
		}

		d := &director.Director{
			FPS:            p.Config.FPS,
			CodeFraction:   p.Config.CodeFraction,
			OutputFraction: p.Config.OutputFraction,
			PacingBuffer:   p.Config.PacingBuffer,
		}
		tl, err = d.Plan(audioDur, p.Config.FallbackDuration, rec.HasOutput())
		if err != nil {
			return err
		}
	}

	rate := typingRate(p.Config.TypingRate)

	if p.Config.PlanPath != "" {
		return p.writePlan(rec, scheme, tl, rate)
	}

	if voicePath == "" {
		silPath := filepath.Join(p.tempDir, fmt.Sprintf("silence_day%d.wav", rec.Day))
		if err := speech.SilentTrack(ctx, tl.Duration, silPath); err != nil {
			fmt.Printf("[!] Тишина не записалась (%v), ролик будет без звука\n", err)
		} else {
			voicePath = silPath
		}
	}

	r, err := p.buildRenderer(scheme, rec)
	if err != nil {
		return err
	}

	states := frameStates(*p.Config, r, tl)

	outPath := p.outputPath(rec)
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	fmt.Println("--- [PROJECT: CODE2VIDEO ENGINE] ---")
	fmt.Printf("[*] День %d: %s | Язык: %s\n", rec.Day, rec.Title, rec.Language)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кадров: %d (%.2fs)\n",
		p.Config.Width, p.Config.Height, tl.FPS, tl.TotalFrames, tl.Duration)
	fmt.Printf("[*] Тема: %s | Озвучка: %s\n", scheme.Name, voiceLabel(voicePath))
	fmt.Println("-----------------------------")

	job := video.Job{
		OutPath:     outPath,
		Width:       p.Config.Width,
		Height:      p.Config.Height,
		FPS:         tl.FPS,
		TotalFrames: tl.TotalFrames,
		Duration:    tl.Duration,
		AudioPath:   voicePath,
		MusicPath:   p.resolveMusic(),
		MusicVolume: p.Config.MusicVolume,
		Encoder:     p.Config.VideoEncoder,
		Quality:     p.Config.Quality,
	}

	renderStart := time.Now()
	if err := p.renderAndEncode(ctx, r, states, job); err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	if metaPath, err := metadata.WriteSidecar(metadata.Generate(rec), outPath); err != nil {
		fmt.Printf("[!] Метаданные не записались: %v\n", err)
	} else {
		fmt.Printf("[*] Метаданные: %s\n", metaPath)
	}

	totalTime := time.Since(startTime)
	if p.Config.ShowStats {
		p.reportStats(rec, tl, totalTime, renderTime)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", outPath)
	return nil
}

// detectLanguage заполняет пропущенный язык записи по коду.
func (p *VideoProject) detectLanguage(rec *content.Record) {
	if rec.Language != "" {
		return
	}
	det, err := analyzer.NewDetector("keyword")
	if err != nil {
		rec.Language = "python"
		return
	}
	guess, err := det.Detect(rec.Code)
	if err != nil || guess.Language == "" {
		rec.Language = "python"
		return
	}
	rec.Language = guess.Language
	fmt.Printf("[*] Определен язык: %s (уверенность %.0f%%)\n", guess.Language, guess.Confidence*100)
}

// resolveScheme выбирает тему и чинит нечитаемый текст до первого кадра.
func (p *VideoProject) resolveScheme(rec content.Record) (theme.Scheme, error) {
	set := p.Themes
	if len(set) == 0 {
		set = theme.Builtin()
	}

	var scheme theme.Scheme
	if p.Config.ThemeName != "" {
		found, ok := theme.Find(set, p.Config.ThemeName)
		if !ok {
			return theme.Scheme{}, fmt.Errorf("тема %q не найдена", p.Config.ThemeName)
		}
		scheme = found
	} else {
		scheme = theme.Pick(set, rec.Title)
	}

	if err := scheme.Validate(); err != nil {
		return theme.Scheme{}, err
	}

	pal, err := scheme.Decode()
	if err != nil {
		return theme.Scheme{}, err
	}
	if ratio, ok := analyzer.CheckScheme(pal); !ok {
		fixed := analyzer.ReadableText(pal)
		scheme.Text = fmt.Sprintf("#%02x%02x%02x", fixed.R, fixed.G, fixed.B)
		fmt.Printf("[!] Низкий контраст темы %s (%.2f), цвет текста заменен\n", scheme.Name, ratio)
	}
	return scheme, nil
}

// resolveVoice находит дорожку озвучки: явный путь, затем синтез,
// затем самый свежий файл в папке. Пустая строка значит "ничего нет".
func (p *VideoProject) resolveVoice(ctx context.Context, rec content.Record) string {
	if p.Config.AudioPath != "" {
		if _, err := os.Stat(p.Config.AudioPath); err == nil {
			fmt.Printf("[*] Озвучка: %s\n", p.Config.AudioPath)
			return p.Config.AudioPath
		}
		fmt.Printf("[!] Файл озвучки %s недоступен\n", p.Config.AudioPath)
	}

	if p.Synth != nil {
		script := rec.ScriptText()
		voicePath := filepath.Join(p.tempDir, fmt.Sprintf("voice_day%d.mp3", rec.Day))
		fmt.Printf("[*] Синтез озвучки (%d символов)...\n", len(script))
		res, err := p.Synth.Synthesize(ctx, script, voicePath, speech.Options{
			Keys:     p.Config.TTSKeys,
			KeyIndex: p.Config.TTSKeyIndex,
		})
		if err == nil {
			p.Config.TTSKeyIndex = res.KeyIndex
			return voicePath
		}
		log.Printf("[!] Синтез не удался: %v", err)
	}

	if p.Config.AudioDir != "" {
		found, err := system.FindLatestAudio(p.Config.AudioDir)
		if err == nil {
			fmt.Printf("[*] Найдена озвучка: %s\n", found)
			return found
		}
		fmt.Printf("[!] %v\n", err)
	}

	return ""
}

func (p *VideoProject) resolveMusic() string {
	if p.Config.MusicPath == "" {
		return ""
	}
	fi, err := os.Stat(p.Config.MusicPath)
	if err != nil {
		fmt.Printf("[!] Фоновая музыка %s недоступна\n", p.Config.MusicPath)
		return ""
	}

	path := p.Config.MusicPath
	if fi.IsDir() {
		path, err = system.FindLatestMusic(p.Config.MusicPath)
		if err != nil {
			fmt.Printf("[!] %v\n", err)
			return ""
		}
	}

	if !system.FilterSupported("amix") {
		fmt.Println("[!] Локальный ffmpeg собран без amix, музыка пропущена")
		return ""
	}
	return path
}

// writePlan сохраняет раскадровку вместо рендеринга.
func (p *VideoProject) writePlan(rec content.Record, scheme theme.Scheme, tl director.Timeline, rate int) error {
	sb := &director.Storyboard{
		Version:  "1.0",
		Day:      rec.Day,
		Title:    rec.Title,
		Language: rec.Language,
		Scheme:   scheme.Name,
		Timeline: tl,
		Phases:   tl.Spans(),
		Lines:    tl.LineSchedule(typing.SplitCode(rec.Code), rate),
	}

	path := p.Config.PlanPath
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		path = director.StoryboardPath(path, rec.Day)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := director.WriteStoryboard(sb, path); err != nil {
		return err
	}
	fmt.Printf("[+++] Успех! Раскадровка сохранена: %s\n", path)
	return nil
}

// loadStoryboard подменяет расчет таймлайна готовой раскадровкой. Путь может
// указывать на файл или на папку, из папки берется самая свежая.
func (p *VideoProject) loadStoryboard(rec content.Record) (director.Timeline, error) {
	path := p.Config.PlanInput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		latest, err := director.FindLatestStoryboard(path)
		if err != nil {
			return director.Timeline{}, err
		}
		path = latest
	}

	sb, err := director.ReadStoryboard(path)
	if err != nil {
		return director.Timeline{}, fmt.Errorf("ошибка чтения раскадровки: %w", err)
	}
	if sb.Timeline.TotalFrames <= 0 {
		return director.Timeline{}, fmt.Errorf("раскадровка %s не содержит кадров", path)
	}
	if sb.Day != 0 && sb.Day != rec.Day {
		fmt.Printf("[!] Раскадровка записана для дня %d, рендерится день %d\n", sb.Day, rec.Day)
	}
	fmt.Printf("[*] Используется раскадровка: %s (%d кадров, %.2fs)\n", path, sb.Timeline.TotalFrames, sb.Timeline.Duration)
	return sb.Timeline, nil
}

func (p *VideoProject) buildRenderer(scheme theme.Scheme, rec content.Record) (*renderer.Renderer, error) {
	fonts, err := renderer.LoadFonts(p.Config.FontPath)
	if err != nil {
		fmt.Printf("[!] Шрифт не загрузился (%v), используется встроенный\n", err)
		fonts, err = renderer.LoadFonts("")
		if err != nil {
			return nil, err
		}
	}
	return renderer.New(*p.Config, scheme, rec, fonts)
}

func (p *VideoProject) outputPath(rec content.Record) string {
	if p.Config.Day > 0 && p.Config.OutputVideo != "" {
		return p.Config.OutputVideo
	}
	dir := "output"
	if p.Config.OutputVideo != "" {
		dir = filepath.Dir(p.Config.OutputVideo)
	}
	return filepath.Join(dir, fmt.Sprintf("day%d.mp4", rec.Day))
}

func voiceLabel(path string) string {
	if path == "" {
		return "нет"
	}
	return filepath.Base(path)
}

// typingRate переводит скорость из символов за тик в единицы аккумулятора.
func typingRate(charsPerTick float64) int {
	rate := int(math.Round(charsPerTick * typing.UnitsPerChar))
	if rate < 1 {
		rate = 1
	}
	return rate
}

// frameStates прогоняет машину набора по всей временной шкале и снимает
// состояние каждого кадра. Сам прогон последовательный и дешевый, тяжелая
// растеризация потом идет параллельно по готовым состояниям.
func frameStates(cfg config.Config, r *renderer.Renderer, tl director.Timeline) []renderer.FrameState {
	machine := typing.NewMachine(r.CodeLines(), typingRate(cfg.TypingRate))
	window := typing.NewWindow(cfg.VisibleLines)
	outputLen := r.OutputLen()

	states := make([]renderer.FrameState, tl.TotalFrames)
	for frame := 0; frame < tl.TotalFrames; frame++ {
		phase := tl.PhaseAt(frame)
		if phase == director.PhaseCode {
			machine.Tick()
		} else if !machine.Done() {
			machine.ForceComplete()
		}

		elapsed := tl.ElapsedAt(frame)
		showOutput := phase != director.PhaseCode && outputLen > 0

		states[frame] = renderer.FrameState{
			Snapshot:    machine.Snapshot(),
			ActiveLine:  machine.ActiveLine(),
			Offset:      window.Advance(machine.ActiveLine()),
			TypedChars:  machine.TypedChars(),
			CursorOn:    typing.CursorOn(elapsed, cfg.BlinkRate),
			OutputChars: typing.OutputProgress(frame, tl.CodeEnd(), tl.OutputFrames, outputLen),
			ShowOutput:  showOutput,
			Elapsed:     elapsed,
			Total:       tl.Duration,
		}
	}
	return states
}

type renderedFrame struct {
	index int
	img   *image.RGBA
}

// renderAndEncode раскидывает кадры по воркерам и восстанавливает порядок
// перед отправкой в единственный процесс кодировщика. Рендерер после
// создания неизменяемый, воркеры делят его без блокировок.
func (p *VideoProject) renderAndEncode(ctx context.Context, r *renderer.Renderer, states []renderer.FrameState, job video.Job) error {
	if p.Pool == nil {
		p.Pool = system.NewFramePool(job.Width, job.Height)
	}
	pool := p.Pool

	workers := system.RenderWorkers(job.Width, job.Height, p.Config.Workers)
	if workers > len(states) {
		workers = len(states)
	}
	fmt.Printf("[*] Рендеринг: %d воркеров\n", workers)

	jobs := make(chan int, len(states))
	for i := range states {
		jobs <- i
	}
	close(jobs)

	results := make(chan renderedFrame, workers*2)
	frames := make(chan *image.RGBA, workers)

	g, gctx := errgroup.WithContext(ctx)

	var renderWG sync.WaitGroup
	renderWG.Add(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			defer renderWG.Done()
			for idx := range jobs {
				frame := r.RenderFrame(states[idx])
				rgba := pool.Get()
				draw.Draw(rgba, rgba.Bounds(), frame, frame.Bounds().Min, draw.Src)
				select {
				case results <- renderedFrame{index: idx, img: rgba}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		renderWG.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		return reorderFrames(gctx, results, frames)
	})

	g.Go(func() error {
		return p.Encoder.Encode(gctx, job, frames)
	})

	return g.Wait()
}

// reorderFrames восстанавливает строгий порядок кадров: воркеры отдают их
// вразнобой, кодировщик принимает только по возрастанию индекса.
func reorderFrames(ctx context.Context, results <-chan renderedFrame, frames chan<- *image.RGBA) error {
	defer close(frames)
	pending := make(map[int]*image.RGBA)
	next := 0
	for res := range results {
		pending[res.index] = res.img
		for {
			img, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			select {
			case frames <- img:
			case <-ctx.Done():
				return ctx.Err()
			}
			next++
		}
	}
	return nil
}

func (p *VideoProject) reportStats(rec content.Record, tl director.Timeline, totalTime, renderTime time.Duration) {
	fps := float64(tl.TotalFrames) / totalTime.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Render+Encode: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, totalTime.Seconds(), renderTime.Seconds(), tl.TotalFrames, fps,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Day: %d | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		rec.Day,
		tl.TotalFrames,
		totalTime.Seconds(),
		renderTime.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
