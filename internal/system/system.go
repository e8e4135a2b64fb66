package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/lrcframe/internal/log"
	"github.com/shirou/gopsutil/v3/cpu"
)

// LyricsExtensions lists the file types treated as lyrics input
var LyricsExtensions = []string{".lrc", ".txt"}

// AudioExtensions lists the file types accepted by -audio-sync
var AudioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.L().Warn("[!] Не удалось получить лимит файлов", "err", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.L().Warn("[!] Не удалось установить лимит файлов", "err", err)
	} else {
		log.L().Debug("[*] Системный лимит открытых файлов увеличен", "limit", rLimit.Cur)
	}
}

// DefaultWorkers returns the number of physical cores, falling back to runtime.NumCPU
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// FindLatestFile returns the most recently modified file in dir with one of the given extensions
func FindLatestFile(dir string, extensions []string) (string, error) {
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
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов (%s)", dir, strings.Join(extensions, ", "))
	}

	return latestFile, nil
}

func FindLatestLyrics(dir string) (string, error) {
	return FindLatestFile(dir, LyricsExtensions)
}

func FindLatestAudio(dir string) (string, error) {
	return FindLatestFile(dir, AudioExtensions)
}

// HasLyricsExtension reports whether name looks like a lyrics file
func HasLyricsExtension(name string) bool {
	return hasExtension(name, LyricsExtensions)
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

// GetAudioDuration probes the track length in seconds with ffprobe
func GetAudioDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unexpected output %q", path, strings.TrimSpace(string(out)))
	}

	return duration, nil
}
