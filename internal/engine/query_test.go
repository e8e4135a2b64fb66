package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTimelineAt(t *testing.T) {
	p := newTestProject(t, "yaml")
	tl, err := p.Timeline(context.Background(), memSource{name: "song", raw: song})
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}

	tests := []struct {
		time     float64
		found    bool
		expected string
	}{
		{0.5, false, ""},
		{1.0, true, "first"},
		{3.99, true, "first"},
		{4.0, true, "second"},
		{100, true, "third"},
	}

	for _, tt := range tests {
		f, ok := tl.At(tt.time)
		if ok != tt.found {
			t.Errorf("At %.2f: expected found=%v, got %v", tt.time, tt.found, ok)
			continue
		}
		if ok && f.Line.Text != tt.expected {
			t.Errorf("At %.2f: expected %q, got %q", tt.time, tt.expected, f.Line.Text)
		}
	}
}

func TestTimelineWithOffset(t *testing.T) {
	p := newTestProject(t, "yaml")
	p.Config.ApplyOffset = true

	tl, err := p.Timeline(context.Background(), memSource{name: "song", raw: song})
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	f, ok := tl.At(0.6)
	if !ok {
		t.Fatal("Expected a frame")
	}
	if f.Line.Text != "first" || f.Window.Start != 0.5 {
		t.Errorf("Expected shifted first line, got %+v", f)
	}
}

func TestTimelineReadError(t *testing.T) {
	p := newTestProject(t, "yaml")
	if _, err := p.Timeline(context.Background(), memSource{name: "bad", err: errors.New("boom")}); err == nil {
		t.Error("Expected read error")
	}
}

func TestLoadTimelineCueSheet(t *testing.T) {
	p := newTestProject(t, "yaml", memSource{name: "night drive", raw: song})
	p.Config.TotalDuration = 20

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tl, err := p.LoadTimeline(context.Background(), report.Results[0].Output)
	if err != nil {
		t.Fatalf("LoadTimeline failed: %v", err)
	}
	if tl.Len() != 3 {
		t.Fatalf("Expected 3 lines, got %d", tl.Len())
	}

	// The stored end of the last cue survives the round trip
	f, ok := tl.At(15)
	if !ok || f.Line.Text != "third" || f.Window.End != 20 {
		t.Errorf("Expected third line ending at 20, got %+v", f)
	}
	if tl.Duration() != 20 {
		t.Errorf("Expected duration 20, got %.2f", tl.Duration())
	}
}

func TestLoadTimelineLyricsFile(t *testing.T) {
	p := newTestProject(t, "yaml")
	path := filepath.Join(t.TempDir(), "song.lrc")
	if err := os.WriteFile(path, []byte(song), 0644); err != nil {
		t.Fatal(err)
	}

	tl, err := p.LoadTimeline(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadTimeline failed: %v", err)
	}
	f, ok := tl.AtFrame(100, 25) // 4.0s
	if !ok || f.Line.Text != "second" {
		t.Errorf("Expected second line at frame 100, got %+v", f)
	}

	if _, err := p.LoadTimeline(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing cue sheet")
	}
}

func TestLint(t *testing.T) {
	p := newTestProject(t, "yaml",
		memSource{name: "clean", raw: song},
		memSource{name: "dirty", raw: "[00:01.00] a {size}\nplain"},
	)

	issues, err := p.Lint(context.Background(), "all")
	if err != nil {
		t.Fatalf("Lint failed: %v", err)
	}
	if _, ok := issues["clean"]; ok {
		t.Errorf("Expected no issues for clean source, got %+v", issues["clean"])
	}
	if len(issues["dirty"]) != 2 {
		t.Errorf("Expected 2 issues for dirty source, got %+v", issues["dirty"])
	}

	if _, err := p.Lint(context.Background(), "contrast"); err == nil {
		t.Error("Expected error for unknown variant")
	}
}
