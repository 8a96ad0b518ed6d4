package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ivlev/code2video/internal/system"
)

// Job описывает один прогон кодировщика: размер и число кадров,
// дорожка озвучки и опциональная фоновая музыка.
type Job struct {
	OutPath     string
	Width       int
	Height      int
	FPS         int
	TotalFrames int
	Duration    float64
	AudioPath   string
	MusicPath   string
	MusicVolume float64
	Encoder     string
	Quality     int
}

func (j Job) validate() error {
	if j.OutPath == "" {
		return fmt.Errorf("не задан путь результата")
	}
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("недопустимый размер кадра %dx%d", j.Width, j.Height)
	}
	if j.FPS <= 0 || j.TotalFrames <= 0 {
		return fmt.Errorf("недопустимая длина ролика: %d кадров при %d fps", j.TotalFrames, j.FPS)
	}
	if j.Encoder == "" {
		return fmt.Errorf("не выбран кодировщик")
	}
	return nil
}

// Encoder принимает кадры строго по порядку и собирает из них ролик.
// Канал должен отдать ровно TotalFrames кадров и закрыться.
type Encoder interface {
	Encode(ctx context.Context, job Job, frames <-chan *image.RGBA) error
}

// FFmpegEncoder стримит кадры в один процесс ffmpeg через stdin.
// Pool, если задан, получает отработанные кадры обратно.
type FFmpegEncoder struct {
	Pool     *system.FramePool
	Progress bool
}

func (e *FFmpegEncoder) Encode(ctx context.Context, job Job, frames <-chan *image.RGBA) error {
	if err := job.validate(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", buildArgs(job)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	var bar *progressbar.ProgressBar
	if e.Progress {
		bar = progressbar.NewOptions(job.TotalFrames,
			progressbar.OptionSetDescription("[>] Кодирование"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
		)
	}

	written := 0
	var writeErr error
	for img := range frames {
		if writeErr == nil {
			writeErr = writeRawRGBA(stdin, img)
			if writeErr == nil {
				written++
				if bar != nil {
					bar.Add(1)
				}
			}
		}
		if e.Pool != nil {
			e.Pool.Put(img)
		}
	}
	stdin.Close()
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w (%s)", err, stderrTail(stderr.String()))
	}
	if writeErr != nil {
		return fmt.Errorf("write raw error: %w", writeErr)
	}
	if written != job.TotalFrames {
		return fmt.Errorf("кодировщик получил %d кадров из %d", written, job.TotalFrames)
	}

	return nil
}

// writeRawRGBA пишет кадр как сырые байты RGBA. Кадры с чужим страйдом
// или смещенным началом перекладываются в плотный буфер.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		dense := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(dense, dense.Bounds(), img, bounds.Min, draw.Src)
		img = dense
	}
	_, err := w.Write(img.Pix)
	return err
}

// stderrTail оставляет от болтливого вывода ffmpeg последние строки,
// где обычно и лежит причина падения.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " | ")
}
