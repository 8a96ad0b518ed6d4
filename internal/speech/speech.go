package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Synthesizer превращает текст сценария в аудиодорожку по пути outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string, opts Options) (Result, error)
}

// Options задает ротацию API-ключей. Индекс передается явно и
// возвращается в Result, скрытого состояния у синтезатора нет.
type Options struct {
	Keys     []string
	KeyIndex int
}

// Result сообщает, какой ключ сработал, чтобы следующий запуск
// продолжил с него.
type Result struct {
	KeyIndex int
}

// ExecSynthesizer запускает внешнюю команду озвучки.
// В аргументах разворачиваются плейсхолдеры {text}, {out} и {key}.
type ExecSynthesizer struct {
	Argv []string

	run func(ctx context.Context, argv []string) error
}

func NewExecSynthesizer(command string) (*ExecSynthesizer, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("пустая команда озвучки")
	}
	hasOut := false
	for _, a := range argv {
		if strings.Contains(a, "{out}") {
			hasOut = true
			break
		}
	}
	if !hasOut {
		return nil, fmt.Errorf("команда озвучки %q не содержит плейсхолдер {out}", command)
	}
	return &ExecSynthesizer{Argv: argv, run: runCommand}, nil
}

func (s *ExecSynthesizer) Synthesize(ctx context.Context, text, outPath string, opts Options) (Result, error) {
	if !usesKey(s.Argv) || len(opts.Keys) == 0 {
		err := s.run(ctx, expandArgv(s.Argv, text, outPath, ""))
		return Result{KeyIndex: opts.KeyIndex}, err
	}

	var lastErr error
	for _, idx := range keyOrder(len(opts.Keys), opts.KeyIndex) {
		if err := ctx.Err(); err != nil {
			return Result{KeyIndex: idx}, err
		}
		err := s.run(ctx, expandArgv(s.Argv, text, outPath, opts.Keys[idx]))
		if err == nil {
			return Result{KeyIndex: idx}, nil
		}
		fmt.Printf("[!] Ключ озвучки #%d не сработал: %v\n", idx+1, err)
		lastErr = err
	}
	return Result{KeyIndex: opts.KeyIndex}, fmt.Errorf("все %d ключей озвучки исчерпаны: %w", len(opts.Keys), lastErr)
}

func usesKey(argv []string) bool {
	for _, a := range argv {
		if strings.Contains(a, "{key}") {
			return true
		}
	}
	return false
}

// keyOrder перечисляет индексы ключей начиная со start по кругу.
func keyOrder(n, start int) []int {
	if n <= 0 {
		return nil
	}
	if start < 0 || start >= n {
		start = 0
	}
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		order = append(order, (start+i)%n)
	}
	return order
}

func expandArgv(argv []string, text, out, key string) []string {
	expanded := make([]string, len(argv))
	for i, a := range argv {
		a = strings.ReplaceAll(a, "{text}", text)
		a = strings.ReplaceAll(a, "{out}", out)
		a = strings.ReplaceAll(a, "{key}", key)
		expanded[i] = a
	}
	return expanded
}

func runCommand(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// SilentTrack пишет тишину заданной длины. Запасной вариант, когда
// озвучки нет: ролик все равно должен получить аудиодорожку.
func SilentTrack(ctx context.Context, duration float64, outPath string) error {
	if duration <= 0 {
		return fmt.Errorf("недопустимая длительность тишины %.2f", duration)
	}
	return runCommand(ctx, silentArgs(duration, outPath))
}

func silentArgs(duration float64, outPath string) []string {
	return []string{
		"ffmpeg", "-y",
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=mono",
		"-t", strconv.FormatFloat(duration, 'f', 3, 64),
		"-acodec", "pcm_s16le",
		outPath,
	}
}
