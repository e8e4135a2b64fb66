package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/lrcframe/internal/config"
	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/source"
	"github.com/ivlev/lrcframe/internal/store"
)

// memSource serves fixed text
type memSource struct {
	name string
	raw  string
	err  error
}

func (m memSource) Name() string { return m.name }

func (m memSource) Read(ctx context.Context) (string, error) {
	return m.raw, m.err
}

const song = "[ti:Night Drive]\n[offset:+500]\n[00:01.00] first {size:100}\n[00:04.00] second\n[00:06.00] third"

func newTestProject(t *testing.T, format string, srcs ...source.Source) *Project {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.Format = format
	cfg.Workers = 2

	p := NewProject(cfg, srcs, store.NewMemoryCache())
	p.Out = io.Discard
	p.Probe = nil
	return p
}

func TestRunYAML(t *testing.T) {
	p := newTestProject(t, "yaml", memSource{name: "night drive", raw: song})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Results) != 1 || report.Lines() != 3 {
		t.Fatalf("Unexpected report: %+v", report)
	}

	res := report.Results[0]
	if filepath.Base(res.Output) != "night_drive.yaml" {
		t.Errorf("Expected night_drive.yaml, got %s", res.Output)
	}

	sheet, err := director.ReadCueSheet(res.Output)
	if err != nil {
		t.Fatalf("ReadCueSheet failed: %v", err)
	}
	if sheet.Title != "Night Drive" || len(sheet.Cues) != 3 {
		t.Errorf("Unexpected sheet: %+v", sheet)
	}
	// Offset is not applied unless requested
	if sheet.Cues[0].Start != 1.0 {
		t.Errorf("Expected first cue at 1.0, got %f", sheet.Cues[0].Start)
	}
}

func TestRunFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"srt", "00:00:01,000 --> 00:00:04,000\nfirst"},
		{"ass", "Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,first"},
		{"lrc", "[00:01.00] first {size:100}"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			p := newTestProject(t, tt.format, memSource{name: "song", raw: song})
			report, err := p.Run(context.Background())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			data, err := os.ReadFile(report.Results[0].Output)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasSuffix(report.Results[0].Output, "."+tt.format) {
				t.Errorf("Unexpected output path %s", report.Results[0].Output)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("Expected %q in output:\n%s", tt.want, data)
			}
		})
	}
}

func TestRunAppliesOffsetAndAudio(t *testing.T) {
	p := newTestProject(t, "yaml", memSource{name: "song", raw: song})
	p.Config.ApplyOffset = true
	p.Config.AudioSync = true
	p.Config.AudioPath = "track.mp3"
	p.Probe = func(ctx context.Context, path string) (float64, error) {
		return 30.0, nil
	}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.TotalDuration != 30.0 {
		t.Errorf("Expected audio duration 30.0, got %f", report.TotalDuration)
	}

	sheet, err := director.ReadCueSheet(report.Results[0].Output)
	if err != nil {
		t.Fatal(err)
	}
	if sheet.Cues[0].Start != 0.5 {
		t.Errorf("Expected offset to move first cue to 0.5, got %f", sheet.Cues[0].Start)
	}
	if last := sheet.Cues[len(sheet.Cues)-1]; last.End != 30.0 {
		t.Errorf("Expected last cue to end with the audio, got %f", last.End)
	}
}

func TestRunProbeFailureKeepsDuration(t *testing.T) {
	p := newTestProject(t, "yaml", memSource{name: "song", raw: song})
	p.Config.AudioSync = true
	p.Config.AudioPath = "track.mp3"
	p.Config.TotalDuration = 12
	p.Probe = func(ctx context.Context, path string) (float64, error) {
		return 0, errors.New("ffprobe not found")
	}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.TotalDuration != 12 {
		t.Errorf("Expected configured duration 12, got %f", report.TotalDuration)
	}
}

func TestRunUsesCache(t *testing.T) {
	cache := store.NewMemoryCache()
	p := newTestProject(t, "srt", memSource{name: "a", raw: song}, memSource{name: "b", raw: song})
	p.Cache = cache
	p.Config.Workers = 1

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.CacheHits != 1 {
		t.Errorf("Expected one cache hit for identical sources, got %d", report.CacheHits)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected one cache entry, got %d", cache.Len())
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := newTestProject(t, "yaml").Run(context.Background()); err == nil {
		t.Error("Expected error without sources")
	}

	p := newTestProject(t, "yaml", memSource{name: "broken", err: errors.New("boom")})
	if _, err := p.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Expected read error naming the source, got %v", err)
	}

	p = newTestProject(t, "yaml", memSource{name: "empty", raw: "no timestamps here"})
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("Expected error for source without timed lines")
	}
}

func TestOutputPaths(t *testing.T) {
	p := newTestProject(t, "srt", memSource{name: "My Song"}, memSource{name: "My Song"}, memSource{name: "other"})

	paths := p.outputPaths()
	expected := []string{"My_Song.srt", "My_Song_2.srt", "other.srt"}
	for i, e := range expected {
		if filepath.Base(paths[i]) != e {
			t.Errorf("Path %d: expected %s, got %s", i, e, paths[i])
		}
		if filepath.Dir(paths[i]) != p.Config.OutputDir {
			t.Errorf("Path %d outside output dir: %s", i, paths[i])
		}
	}
}

func TestRunStatsWritesBenchmarkLog(t *testing.T) {
	p := newTestProject(t, "yaml", memSource{name: "song", raw: song})
	p.Config.ShowStats = true

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(p.Config.OutputDir, "benchmark.log"))
	if err != nil {
		t.Fatalf("benchmark.log missing: %v", err)
	}
	if !strings.Contains(string(data), "Lines: 3") {
		t.Errorf("Unexpected benchmark entry: %s", data)
	}
}
