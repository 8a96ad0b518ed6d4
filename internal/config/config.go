package config

import "fmt"

type Config struct {
	ContentPath      string
	Day              int
	OutputVideo      string
	AudioPath        string
	AudioDir         string
	MusicPath        string
	MusicVolume      float64
	ThemeName        string
	ThemePackPath    string
	FontPath         string
	ChannelURL       string
	PlanPath         string
	PlanInput        string
	Workers          int
	Width            int
	Height           int
	FPS              int
	VisibleLines     int
	TypingRate       float64
	CodeFraction     float64
	OutputFraction   float64
	PacingBuffer     float64
	FallbackDuration float64
	BlinkRate        float64
	VideoEncoder     string
	Quality          int
	TTSCommand       string
	TTSKeys          []string
	TTSKeyIndex      int
	ShowStats        bool
	BuildVersion     string
}

func Default() Config {
	return Config{
		ContentPath:      "days.json",
		MusicVolume:      0.3,
		Width:            1080,
		Height:           1920,
		FPS:              30,
		VisibleLines:     14,
		TypingRate:       0.5,
		CodeFraction:     0.6,
		OutputFraction:   0.3,
		PacingBuffer:     1.5,
		FallbackDuration: 5.0,
		BlinkRate:        2.0,
		Quality:          23,
	}
}

// Validate отсекает структурно невалидные параметры до начала рендеринга.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("недопустимый размер кадра %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("недопустимый FPS: %d", c.FPS)
	}
	if c.VisibleLines <= 0 {
		return fmt.Errorf("недопустимое число видимых строк: %d", c.VisibleLines)
	}
	if c.TypingRate <= 0 {
		return fmt.Errorf("недопустимая скорость набора: %.2f", c.TypingRate)
	}
	if c.CodeFraction <= 0 || c.CodeFraction+c.OutputFraction >= 1.0 {
		return fmt.Errorf("недопустимые доли фаз: код %.2f, вывод %.2f", c.CodeFraction, c.OutputFraction)
	}
	return nil
}
