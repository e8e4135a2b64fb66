package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/system"
)

// SRT renders the cue sheet as SubRip. Cues without text are skipped.
func SRT(sheet *director.CueSheet) string {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	n := 0
	for _, c := range sheet.Cues {
		if c.Text == "" {
			continue
		}
		n++
		fmt.Fprintf(buf, "%d\n%s --> %s\n%s\n\n", n, FormatSRTTime(c.Start), FormatSRTTime(c.End), c.Text)
	}

	return buf.String()
}

// FormatSRTTime formats seconds as hh:mm:ss,mmm
func FormatSRTTime(sec float64) string {
	ms := int64(math.Round(math.Max(sec, 0) * 1000))
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// FormatASSTime formats seconds as h:mm:ss.cs
func FormatASSTime(sec float64) string {
	cs := int64(math.Round(math.Max(sec, 0) * 100))
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs%100)
}

// escapeASS keeps text from being read as override blocks or hard breaks
func escapeASS(text string) string {
	r := strings.NewReplacer("\r", "", "\n", "\\N", "{", "(", "}", ")")
	return r.Replace(text)
}
