package director

import "github.com/ivlev/lrcframe/internal/lrc"

// CueSheet is the exchange document for one parsed track
type CueSheet struct {
	Version  string  `yaml:"version"`
	Source   string  `yaml:"source"`
	Title    string  `yaml:"title,omitempty"`
	Artist   string  `yaml:"artist,omitempty"`
	Duration float64 `yaml:"duration"` // Total duration in seconds
	Cues     []Cue   `yaml:"cues"`
}

// Cue is a single line with its resolved active window
type Cue struct {
	ID    int       `yaml:"id"`
	Start float64   `yaml:"start"` // Seconds
	End   float64   `yaml:"end"`   // Seconds, exclusive
	Text  string    `yaml:"text"`
	Style lrc.Style `yaml:"style,omitempty"`
}

// Lines converts the cues back into timed lines for the locator
func (s *CueSheet) Lines() []lrc.TimedLine {
	lines := make([]lrc.TimedLine, len(s.Cues))
	for i, c := range s.Cues {
		lines[i] = lrc.TimedLine{StartTime: c.Start, Text: c.Text, Style: c.Style}
	}
	return lines
}

// Windows returns the cue windows in order
func (s *CueSheet) Windows() []lrc.Window {
	out := make([]lrc.Window, len(s.Cues))
	for i, c := range s.Cues {
		out[i] = lrc.Window{Start: c.Start, End: c.End}
	}
	return out
}
