package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StoryboardPath creates a timestamped storyboard filename for a day
func StoryboardPath(dir string, day int) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("storyboard_day%d_%s.yaml", day, timestamp))
}

// FindLatestStoryboard finds the most recent storyboard file in a directory
func FindLatestStoryboard(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read storyboard directory: %w", err)
	}

	var boards []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			boards = append(boards, filepath.Join(dir, entry.Name()))
		}
	}

	if len(boards) == 0 {
		return "", fmt.Errorf("no storyboard files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(boards, func(i, j int) bool {
		infoI, _ := os.Stat(boards[i])
		infoJ, _ := os.Stat(boards[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return boards[0], nil
}
