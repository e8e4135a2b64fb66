package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ivlev/lrcframe/internal/lrc"
)

// Anything that looks like a time tag, including ones the parser rejects
var looseTagRegex = regexp.MustCompile(`\[\d+:\d+(?:[.:]\d+)?\]`)

// TimingDetector reports lines the parser would skip and suspicious start times
type TimingDetector struct {
	// ReportOrder enables out_of_order issues. Parse sorts lines, so this is informational.
	ReportOrder bool
}

func NewTimingDetector() *TimingDetector {
	return &TimingDetector{ReportOrder: true}
}

func (d *TimingDetector) Detect(raw string) ([]Issue, error) {
	var issues []Issue
	seen := make(map[float64]int)
	prev := -1.0

	for i, line := range strings.Split(raw, "\n") {
		n := i + 1
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || lrc.IsHeaderTag(line) {
			continue
		}

		tl, ok := lrc.ParseLine(line)
		if !ok {
			if tag := looseTagRegex.FindString(line); tag != "" {
				issues = append(issues, Issue{Line: n, Kind: KindMalformedTag, Message: fmt.Sprintf("time tag %s must be [mm:ss], [mm:ss.xx] or [mm:ss.xxx]", tag)})
			} else {
				issues = append(issues, Issue{Line: n, Kind: KindUntimed, Message: "line has no time tag and will be ignored"})
			}
			continue
		}

		if first, dup := seen[tl.StartTime]; dup {
			issues = append(issues, Issue{Line: n, Kind: KindDuplicateTime, Message: fmt.Sprintf("same start time as line %d (%s)", first, lrc.FormatTimestamp(tl.StartTime))})
		} else {
			seen[tl.StartTime] = n
		}

		if d.ReportOrder && tl.StartTime < prev {
			issues = append(issues, Issue{Line: n, Kind: KindOutOfOrder, Message: fmt.Sprintf("starts at %s, before the previous line", lrc.FormatTimestamp(tl.StartTime))})
		}
		prev = tl.StartTime
	}

	return issues, nil
}
