package lrc

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// [MM:SS] or [MM:SS.ff] / [MM:SS.fff]
	timestampRegex  = regexp.MustCompile(`\[(\d{2}):(\d{2}(?:\.\d{2,3})?)\]`)
	annotationRegex = regexp.MustCompile(`\{([^}]*)\}`)
)

// Parse converts raw LRC text into timed lines sorted by start time.
// Lines without a valid timestamp tag are skipped; the function never fails.
func Parse(raw string) []TimedLine {
	lines := []TimedLine{}

	for _, line := range strings.Split(raw, "\n") {
		tl, ok := parseLine(line)
		if !ok {
			continue
		}
		lines = append(lines, tl)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].StartTime < lines[j].StartTime
	})

	return lines
}

// ParseLine parses one source line. ok is false when the line carries no valid timestamp tag.
func ParseLine(line string) (TimedLine, bool) {
	return parseLine(strings.TrimSuffix(line, "\r"))
}

// parseLine handles a single source line
func parseLine(line string) (TimedLine, bool) {
	loc := timestampRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return TimedLine{}, false
	}

	minutes, err := strconv.Atoi(line[loc[2]:loc[3]])
	if err != nil {
		return TimedLine{}, false
	}
	seconds, err := strconv.ParseFloat(line[loc[4]:loc[5]], 64)
	if err != nil {
		return TimedLine{}, false
	}

	// Only the matched tag is removed, the rest of the line is text
	text := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])

	var style Style
	if m := annotationRegex.FindStringSubmatchIndex(text); m != nil {
		style = parseStyle(text[m[2]:m[3]])
		text = strings.TrimSpace(text[:m[0]] + text[m[1]:])
	}

	return TimedLine{
		StartTime: float64(minutes)*60 + seconds,
		Text:      text,
		Style:     style,
	}, true
}

// parseStyle turns "key:value, key2:value2" into a Style.
// Pairs missing a key or a value are dropped.
func parseStyle(content string) Style {
	style := Style{}

	for _, segment := range strings.Split(content, ",") {
		key, value, found := strings.Cut(segment, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		style[key] = parseValue(value)
	}

	if len(style) == 0 {
		return nil
	}
	return style
}

// parseValue prefers a finite number and falls back to the raw string
func parseValue(s string) Value {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return String(s)
	}
	return Number(f)
}
