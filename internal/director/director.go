package director

import (
	"fmt"

	"github.com/ivlev/lrcframe/internal/lrc"
)

// CueSheetVersion is written into every generated sheet
const CueSheetVersion = "1.0"

// Director lays parsed lines out as cues
type Director struct {
	Fallback float64 // Window of the last line when the track length is unknown (seconds)
	MinGap   float64 // Cues shorter than this are kept but flagged by Report
}

// NewDirector creates a new Director with default settings
func NewDirector() *Director {
	return &Director{
		Fallback: lrc.DefaultFallback,
		MinGap:   0.1,
	}
}

// GenerateCueSheet creates a cue sheet from a parsed document.
// totalDuration <= 0 means the track length is unknown.
func (d *Director) GenerateCueSheet(doc lrc.Document, input string, totalDuration float64) (*CueSheet, error) {
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("no timed lines in %s", input)
	}

	cues := d.generateCues(doc.Lines, totalDuration)

	duration := cues[len(cues)-1].End
	if totalDuration > duration {
		duration = totalDuration
	}

	return &CueSheet{
		Version:  CueSheetVersion,
		Source:   input,
		Title:    doc.Header.Title,
		Artist:   doc.Header.Artist,
		Duration: duration,
		Cues:     cues,
	}, nil
}

// generateCues resolves the window of every line
func (d *Director) generateCues(lines []lrc.TimedLine, totalDuration float64) []Cue {
	cues := make([]Cue, len(lines))

	for i, l := range lines {
		w := lrc.WindowAt(lines, i, d.Fallback)

		// The last line runs until the end of the track when it is known
		if i == len(lines)-1 && totalDuration > w.Start {
			w.End = totalDuration
		}

		cues[i] = Cue{
			ID:    i + 1,
			Start: w.Start,
			End:   w.End,
			Text:  l.Text,
			Style: l.Style,
		}
	}

	return cues
}

// ShortCues returns the IDs of cues that are shorter than MinGap
func (d *Director) ShortCues(sheet *CueSheet) []int {
	var ids []int
	for _, c := range sheet.Cues {
		if c.End-c.Start < d.MinGap {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
