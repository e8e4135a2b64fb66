package timeline

import (
	"sort"

	"github.com/ivlev/lrcframe/internal/lrc"
)

// Frame describes where playback time t sits relative to the active line
type Frame struct {
	Index     int           // Index of the active line
	Line      lrc.TimedLine // The active line itself
	Window    lrc.Window    // [start, next start)
	Elapsed   float64       // Seconds since the line became active
	Remaining float64       // Seconds until the window closes
	Progress  float64       // Linear 0.0-1.0 position inside the window
}

// Timeline is an immutable, sorted sequence of lines with a fallback for the last window.
// It is safe for concurrent use.
type Timeline struct {
	lines    []lrc.TimedLine
	fallback float64
}

// New creates a Timeline. The slice is copied and sorted if needed.
func New(lines []lrc.TimedLine, fallback float64) *Timeline {
	if fallback <= 0 {
		fallback = lrc.DefaultFallback
	}

	copied := make([]lrc.TimedLine, len(lines))
	copy(copied, lines)
	if !sort.SliceIsSorted(copied, func(i, j int) bool { return copied[i].StartTime < copied[j].StartTime }) {
		sort.SliceStable(copied, func(i, j int) bool {
			return copied[i].StartTime < copied[j].StartTime
		})
	}

	return &Timeline{lines: copied, fallback: fallback}
}

// Len returns the number of lines
func (tl *Timeline) Len() int {
	return len(tl.lines)
}

// Lines returns a copy of the underlying lines
func (tl *Timeline) Lines() []lrc.TimedLine {
	out := make([]lrc.TimedLine, len(tl.lines))
	copy(out, tl.lines)
	return out
}

// Fallback returns the window length used for the last line
func (tl *Timeline) Fallback() float64 {
	return tl.fallback
}

// Window returns the active window of line i
func (tl *Timeline) Window(i int) lrc.Window {
	return lrc.WindowAt(tl.lines, i, tl.fallback)
}

// Duration is the end of the last window, or 0 for an empty timeline
func (tl *Timeline) Duration() float64 {
	if len(tl.lines) == 0 {
		return 0
	}
	return tl.Window(len(tl.lines) - 1).End
}

// At calculates the frame state at a given time
func (tl *Timeline) At(t float64) (Frame, bool) {
	w, i, ok := lrc.ActiveWindow(tl.lines, t, tl.fallback)
	if !ok {
		return Frame{Index: -1}, false
	}

	elapsed := t - w.Start
	remaining := w.End - t
	if remaining < 0 {
		remaining = 0
	}

	// Calculate progress factor (0.0 to 1.0)
	progress := 1.0
	if d := w.Duration(); d > 0 {
		progress = clamp(elapsed/d, 0, 1)
	}

	return Frame{
		Index:     i,
		Line:      tl.lines[i],
		Window:    w,
		Elapsed:   elapsed,
		Remaining: remaining,
		Progress:  progress,
	}, true
}

// AtFrame converts a frame counter into seconds and calls At
func (tl *Timeline) AtFrame(frame, fps int) (Frame, bool) {
	if fps <= 0 {
		return Frame{Index: -1}, false
	}
	return tl.At(float64(frame) / float64(fps))
}

// Visible returns the indices of lines whose window intersects [t-trail, t+lead].
// Hosts use it to keep the previous/next lines on screen.
func (tl *Timeline) Visible(t, lead, trail float64) []int {
	from, to := t-trail, t+lead
	var out []int

	// Every window ends at or before the next start, so scanning can stop early
	for i := range tl.lines {
		w := tl.Window(i)
		if w.Start > to {
			break
		}
		if w.End > from {
			out = append(out, i)
		}
	}
	return out
}

// clamp limits v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
