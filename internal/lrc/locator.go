package lrc

import (
	"math"
	"sort"
)

// DefaultFallback is the window length given to the last line when nothing follows it
const DefaultFallback = 5.0

// Window is the half-open interval [Start, End) during which a line is active
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Duration returns the window length in seconds
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// ActiveIndex returns the index of the last line whose start time does not exceed t, or -1.
// lines must be sorted ascending by StartTime.
func ActiveIndex(lines []TimedLine, t float64) int {
	// NaN compares false against every start time
	if math.IsNaN(t) {
		return -1
	}
	// First index with StartTime > t; the one before it is the active line
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].StartTime > t
	})
	return i - 1
}

// CurrentLine returns the line active at time t.
// With equal start times the later line in the sequence wins.
func CurrentLine(lines []TimedLine, t float64) (TimedLine, bool) {
	i := ActiveIndex(lines, t)
	if i < 0 {
		return TimedLine{}, false
	}
	return lines[i], true
}

// WindowAt returns the active window of lines[i].
// The last line ends fallback seconds after it starts.
func WindowAt(lines []TimedLine, i int, fallback float64) Window {
	start := lines[i].StartTime
	if i+1 < len(lines) {
		return Window{Start: start, End: lines[i+1].StartTime}
	}
	if fallback <= 0 {
		fallback = DefaultFallback
	}
	return Window{Start: start, End: start + fallback}
}

// ActiveWindow combines ActiveIndex and WindowAt
func ActiveWindow(lines []TimedLine, t float64, fallback float64) (Window, int, bool) {
	i := ActiveIndex(lines, t)
	if i < 0 {
		return Window{}, -1, false
	}
	return WindowAt(lines, i, fallback), i, true
}
