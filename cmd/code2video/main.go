package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ivlev/code2video/internal/config"
	"github.com/ivlev/code2video/internal/content"
	"github.com/ivlev/code2video/internal/engine"
	"github.com/ivlev/code2video/internal/speech"
	"github.com/ivlev/code2video/internal/system"
	"github.com/ivlev/code2video/internal/theme"
	"github.com/ivlev/code2video/internal/video"
)

const buildVersion = "1.4.0"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input/audio", "input/music", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	contentPtr := flag.String("content", "days.json", "Путь к файлу контента с записями дней")
	dayPtr := flag.Int("day", 0, "Номер дня (0 - все дни из файла контента)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	audioPtr := flag.String("audio", "", "Путь к готовой озвучке (по умолчанию: синтез или самый свежий файл в input/audio/)")
	audioDirPtr := flag.String("audio-dir", "input/audio", "Папка с готовой озвучкой")
	musicPtr := flag.String("music", "", "Фоновая музыка: файл или папка (берется самый свежий трек)")
	musicVolumePtr := flag.Float64("music-volume", 0.3, "Громкость фоновой музыки (0..1)")
	themePtr := flag.String("theme", "", "Имя цветовой темы (если пусто, выбирается по заголовку дня)")
	themesPtr := flag.String("themes", "", "Путь к YAML-файлу с дополнительными темами")
	fontPtr := flag.String("font", "", "Путь к моноширинному TTF для кода (если пусто, встроенный)")
	channelPtr := flag.String("channel", "https://youtube.com/@dailycode", "Ссылка канала для QR-кода")
	planPtr := flag.String("plan", "", "Сохранить раскадровку в файл/папку вместо рендеринга")
	planInputPtr := flag.String("plan-input", "", "Готовая раскадровка: файл или папка (берется самая свежая)")
	presetPtr := flag.String("preset", "", "Пресет формата: 9:16 (Shorts/TikTok), 16:9, 1:1")
	widthPtr := flag.Int("width", 1080, "Ширина")
	heightPtr := flag.Int("height", 1920, "Высота")
	fpsPtr := flag.Int("fps", 30, "FPS")
	visiblePtr := flag.Int("visible-lines", 14, "Строк кода в видимом окне")
	ratePtr := flag.Float64("typing-rate", 0.5, "Скорость набора (символов за кадр)")
	bufferPtr := flag.Float64("buffer", 1.5, "Добавка к длительности озвучки (сек)")
	fallbackPtr := flag.Float64("fallback-duration", 5.0, "Длительность без озвучки (сек)")
	blinkPtr := flag.Float64("blink", 2.0, "Частота мигания курсора (переключений в секунду)")
	workersPtr := flag.Int("workers", 0, "Потоки рендеринга (0 - авто по CPU и памяти)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	ttsPtr := flag.String("tts", "", "Команда синтеза озвучки с плейсхолдерами {text}, {out}, {key}")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "9:16":
		width, height = 1080, 1920
	case "16:9":
		width, height = 1920, 1080
	case "1:1":
		width, height = 1080, 1080
	}

	src, err := content.NewJSONSource(*contentPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка контента: %v", err)
	}
	fmt.Printf("[*] Контент: %s (%d дней)\n", *contentPtr, len(src.All()))

	themes := theme.Builtin()
	if *themesPtr != "" {
		extra, err := theme.LoadPack(*themesPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка набора тем: %v", err)
		}
		themes = theme.Merge(themes, extra)
		fmt.Printf("[*] Загружен набор тем: %s (+%d)\n", *themesPtr, len(extra))
	}

	encoderName := system.BestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75 // Хорошее качество для VideoToolbox
		case "h264_nvenc":
			quality = 28 // Эквивалент CRF для NVENC
		default:
			quality = 23 // Стандартный CRF для x264
		}
	}

	var synth speech.Synthesizer
	if *ttsPtr != "" {
		es, err := speech.NewExecSynthesizer(*ttsPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка команды озвучки: %v", err)
		}
		synth = es
	}

	cfg := &config.Config{
		ContentPath:      *contentPtr,
		Day:              *dayPtr,
		OutputVideo:      *outputPtr,
		AudioPath:        *audioPtr,
		AudioDir:         *audioDirPtr,
		MusicPath:        *musicPtr,
		MusicVolume:      *musicVolumePtr,
		ThemeName:        *themePtr,
		ThemePackPath:    *themesPtr,
		FontPath:         *fontPtr,
		ChannelURL:       *channelPtr,
		PlanPath:         *planPtr,
		PlanInput:        *planInputPtr,
		Workers:          *workersPtr,
		Width:            width,
		Height:           height,
		FPS:              *fpsPtr,
		VisibleLines:     *visiblePtr,
		TypingRate:       *ratePtr,
		CodeFraction:     0.6,
		OutputFraction:   0.3,
		PacingBuffer:     *bufferPtr,
		FallbackDuration: *fallbackPtr,
		BlinkRate:        *blinkPtr,
		VideoEncoder:     encoderName,
		Quality:          quality,
		TTSCommand:       *ttsPtr,
		TTSKeys:          ttsKeysFromEnv(),
		ShowStats:        *statsPtr,
		BuildVersion:     buildVersion,
	}

	pool := system.NewFramePool(cfg.Width, cfg.Height)
	enc := &video.FFmpegEncoder{Pool: pool, Progress: true}

	project := engine.NewVideoProject(cfg, src, themes, synth, enc)
	project.Pool = pool

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}
}

// ttsKeysFromEnv читает ключи API один раз при старте. Ротация индексов
// дальше живет в конфиге.
func ttsKeysFromEnv() []string {
	raw := os.Getenv("TTS_API_KEYS")
	if raw == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
