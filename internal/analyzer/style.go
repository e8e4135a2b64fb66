package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ivlev/lrcframe/internal/lrc"
)

var annotationRegex = regexp.MustCompile(`\{([^}]*)\}`)

// StyleDetector reports annotation pairs that Parse silently drops or overrides
type StyleDetector struct{}

func NewStyleDetector() *StyleDetector {
	return &StyleDetector{}
}

func (d *StyleDetector) Detect(raw string) ([]Issue, error) {
	var issues []Issue

	for i, line := range strings.Split(raw, "\n") {
		n := i + 1
		line = strings.TrimSuffix(line, "\r")

		// Untimed lines never reach the style parser
		if _, ok := lrc.ParseLine(line); !ok {
			continue
		}

		m := annotationRegex.FindStringSubmatchIndex(line)
		if m == nil {
			if strings.Contains(line, "{") {
				issues = append(issues, Issue{Line: n, Kind: KindUnclosedAnnotation, Message: "annotation opened with '{' is never closed"})
			}
			continue
		}

		issues = append(issues, checkPairs(n, line[m[2]:m[3]])...)
	}

	return issues, nil
}

func checkPairs(n int, content string) []Issue {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var issues []Issue
	keys := make(map[string]bool)

	for _, segment := range strings.Split(content, ",") {
		key, value, found := strings.Cut(segment, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case !found:
			issues = append(issues, Issue{Line: n, Kind: KindMalformedPair, Message: fmt.Sprintf("%q has no ':' separator", strings.TrimSpace(segment))})
		case key == "":
			issues = append(issues, Issue{Line: n, Kind: KindMalformedPair, Message: fmt.Sprintf("%q has no key", strings.TrimSpace(segment))})
		case value == "":
			issues = append(issues, Issue{Line: n, Kind: KindMalformedPair, Message: fmt.Sprintf("key %q has no value", key)})
		case keys[key]:
			issues = append(issues, Issue{Line: n, Kind: KindDuplicateKey, Message: fmt.Sprintf("key %q repeats, the last value wins", key)})
		default:
			keys[key] = true
		}
	}

	return issues
}
