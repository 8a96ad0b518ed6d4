package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}

// FindLatestAudio возвращает самый свежий аудио-файл в папке (озвучка дня).
func FindLatestAudio(dir string) (string, error) {
	return findLatest(dir, audioExtensions, "аудио-файлов")
}

// FindLatestMusic возвращает самый свежий трек фоновой музыки в папке.
func FindLatestMusic(dir string) (string, error) {
	return findLatest(dir, audioExtensions, "музыкальных треков")
}

func findLatest(dir string, extensions []string, kind string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено %s", dir, kind)
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// AudioDuration спрашивает у ffprobe длительность дорожки в секундах.
func AudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}
	return parseProbeDuration(string(out))
}

func parseProbeDuration(out string) (float64, error) {
	var duration float64
	_, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("ffprobe вернул нечитаемую длительность %q", strings.TrimSpace(out))
	}
	if duration < 0 {
		return 0, fmt.Errorf("ffprobe вернул отрицательную длительность %.3f", duration)
	}
	return duration, nil
}

// BestH264Encoder выбирает самый быстрый доступный кодировщик H.264.
//
// Приоритеты:
//  1. MacOS (VideoToolbox)
//  2. NVIDIA (NVENC)
//  3. Software (libx264)
func BestH264Encoder() string {
	cmd := exec.Command("ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(probe string) string {
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(probe, enc) {
			return enc
		}
	}
	return "libx264"
}

// FilterSupported проверяет, собран ли локальный ffmpeg с нужным фильтром.
func FilterSupported(name string) bool {
	cmd := exec.Command("ffmpeg", "-hide_banner", "-filters")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false
	}
	return filterListed(string(out), name)
}

func filterListed(probe, name string) bool {
	for _, line := range strings.Split(probe, "\n") {
		fields := strings.Fields(line)
		// Строка фильтра: флаги, имя, сигнатура, описание.
		if len(fields) >= 3 && fields[1] == name {
			return true
		}
	}
	return false
}

// RenderWorkers подбирает число параллельных рендеров под машину.
// Каждый воркер держит в полёте примерно два кадра RGBA, поэтому
// потолок считается от свободной памяти, а не только от числа ядер.
func RenderWorkers(width, height, requested int) int {
	if requested > 0 {
		return requested
	}

	workers := 4
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		workers = n
	}

	frameBytes := uint64(width) * uint64(height) * 4
	if vm, err := mem.VirtualMemory(); err == nil && frameBytes > 0 {
		budget := vm.Available / 4 / (2 * frameBytes)
		if budget < uint64(workers) {
			workers = int(budget)
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
