package video

import (
	"fmt"
	"strings"
)

// MusicVolumeExpr строит выражение громкости фоновой музыки:
// плавный въезд в начале, плавный уход в конце, ровный уровень между ними.
func MusicVolumeExpr(volume, totalDuration float64) string {
	fadeInDur := 5.0
	fadeOutDur := 5.0
	if totalDuration < fadeInDur+fadeOutDur {
		fadeInDur = totalDuration * 0.1
		fadeOutDur = totalDuration * 0.1
	}

	return fmt.Sprintf("volume='%f*(if(lte(t,%f), 0.1 + 0.9*(t/%f), if(gte(t, %f), (%f-t)/%f, 1.0)))':eval=frame",
		volume, fadeInDur, fadeInDur, totalDuration-fadeOutDur, totalDuration, fadeOutDur)
}

// AudioFilterGraph микширует озвучку с зацикленной фоновой музыкой.
// voiceIndex и musicIndex — номера входов ffmpeg. Музыка бесконечна
// из-за -stream_loop, поэтому снаружи обязателен -shortest.
func AudioFilterGraph(voiceIndex, musicIndex int, volume, totalDuration float64) string {
	var g strings.Builder
	fmt.Fprintf(&g, "[%d:a]%s[bg_a];", musicIndex, MusicVolumeExpr(volume, totalDuration))
	fmt.Fprintf(&g, "[%d:a]volume=1.0[main_a];", voiceIndex)
	g.WriteString("[main_a][bg_a]amix=inputs=2:duration=longest:dropout_transition=3[aout]")
	return g.String()
}

// qualityArgs подбирает ключи качества под кодировщик.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox не на всех версиях понимает -q:v, используем битрейт.
		bitrate := quality * 100 // кбит/с, 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// buildArgs собирает полную команду ffmpeg: сырые кадры RGBA со stdin,
// озвучка вторым входом, опциональная музыка третьим.
func buildArgs(job Job) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", job.Width, job.Height),
		"-framerate", fmt.Sprintf("%d", job.FPS),
		"-i", "-",
	}

	voiceIndex := -1
	if job.AudioPath != "" {
		voiceIndex = 1
		args = append(args, "-i", job.AudioPath)
	}

	musicIndex := -1
	if job.MusicPath != "" && voiceIndex != -1 {
		musicIndex = voiceIndex + 1
		args = append(args, "-stream_loop", "-1", "-i", job.MusicPath)
	}

	audioOut := ""
	if musicIndex != -1 {
		args = append(args, "-filter_complex", AudioFilterGraph(voiceIndex, musicIndex, job.MusicVolume, job.Duration))
		audioOut = "[aout]"
	} else if voiceIndex != -1 {
		audioOut = fmt.Sprintf("%d:a", voiceIndex)
	}

	args = append(args, "-map", "0:v")
	if audioOut != "" {
		args = append(args, "-map", audioOut)
	}

	args = append(args, "-c:v", job.Encoder)
	args = append(args, qualityArgs(job.Encoder, job.Quality)...)
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", job.FPS),
		"-t", fmt.Sprintf("%f", job.Duration),
		"-movflags", "+faststart",
	)
	if musicIndex != -1 {
		args = append(args, "-shortest")
	}

	args = append(args, job.OutPath)
	return args
}
