package lrc

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// [ti:Title], [ar:Artist], [offset:+250] ...
var headerRegex = regexp.MustCompile(`^\s*\[([A-Za-z#]+):([^\]]*)\]\s*$`)

// Header holds the ID tags found at the top of most LRC files
type Header struct {
	Title  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Artist string            `json:"artist,omitempty" yaml:"artist,omitempty"`
	Album  string            `json:"album,omitempty" yaml:"album,omitempty"`
	By     string            `json:"by,omitempty" yaml:"by,omitempty"`
	Length string            `json:"length,omitempty" yaml:"length,omitempty"`
	Offset int               `json:"offset,omitempty" yaml:"offset,omitempty"` // Milliseconds
	Extra  map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// OffsetSeconds converts the header offset into a shift for Shift.
// A positive LRC offset makes lyrics appear sooner.
func (h Header) OffsetSeconds() float64 {
	return -float64(h.Offset) / 1000.0
}

// IsHeaderTag reports whether line is an ID tag such as [ti:Title]
func IsHeaderTag(line string) bool {
	return headerRegex.MatchString(line)
}

// Document is a parsed LRC file with its header
type Document struct {
	Header Header      `json:"header" yaml:"header"`
	Lines  []TimedLine `json:"lines" yaml:"lines"`
}

// ParseDocument parses both the header tags and the timed lines
func ParseDocument(raw string) Document {
	return Document{
		Header: ParseHeader(raw),
		Lines:  Parse(raw),
	}
}

// ParseHeader collects ID tags. Unknown tags land in Extra, a bad offset is ignored.
func ParseHeader(raw string) Header {
	var h Header

	for _, line := range strings.Split(raw, "\n") {
		m := headerRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])

		switch key {
		case "ti":
			h.Title = value
		case "ar":
			h.Artist = value
		case "al":
			h.Album = value
		case "by":
			h.By = value
		case "length":
			h.Length = value
		case "offset":
			if ms, err := strconv.Atoi(strings.TrimPrefix(value, "+")); err == nil {
				h.Offset = ms
			}
		default:
			if h.Extra == nil {
				h.Extra = make(map[string]string)
			}
			h.Extra[key] = value
		}
	}

	return h
}

// Shift returns a copy of lines moved by seconds. Times are clamped at zero.
func Shift(lines []TimedLine, seconds float64) []TimedLine {
	out := make([]TimedLine, len(lines))
	for i, l := range lines {
		start := l.StartTime + seconds
		if start < 0 {
			start = 0
		}
		out[i] = TimedLine{StartTime: start, Text: l.Text, Style: l.Style.clone()}
	}
	return out
}

// Format writes lines back as LRC text with centisecond timestamps.
// Style keys are written in sorted order.
func Format(lines []TimedLine) string {
	var b strings.Builder

	for _, l := range lines {
		b.WriteString(FormatTimestamp(l.StartTime))

		parts := []string{}
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
		if len(l.Style) > 0 {
			parts = append(parts, formatStyle(l.Style))
		}
		if len(parts) > 0 {
			b.WriteString(" ")
			b.WriteString(strings.Join(parts, " "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTimestamp renders seconds as [mm:ss.xx]
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(math.Round(seconds * 100))
	m := cs / 6000
	s := (cs % 6000) / 100
	return fmt.Sprintf("[%02d:%02d.%02d]", m, s, cs%100)
}

func formatStyle(style Style) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ":" + style[k].String()
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
