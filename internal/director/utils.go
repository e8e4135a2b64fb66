package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// IsCueSheetPath reports whether path names a local YAML cue sheet
func IsCueSheetPath(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FindLatestCueSheet finds the most recent cue sheet file in dir
func FindLatestCueSheet(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read cue sheet directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}

	var sheets []candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsCueSheetPath(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sheets = append(sheets, candidate{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	if len(sheets) == 0 {
		return "", fmt.Errorf("no cue sheet files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].modTime.After(sheets[j].modTime)
	})

	return sheets[0].path, nil
}
