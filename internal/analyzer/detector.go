package analyzer

import "sort"

// Issue kinds
const (
	KindUntimed            = "untimed"
	KindMalformedTag       = "malformed_tag"
	KindDuplicateTime      = "duplicate_time"
	KindOutOfOrder         = "out_of_order"
	KindMalformedPair      = "malformed_pair"
	KindDuplicateKey       = "duplicate_key"
	KindUnclosedAnnotation = "unclosed_annotation"
)

// Issue is a lint finding on a 1-based source line
type Issue struct {
	Line    int    `json:"line" yaml:"line"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Detector is the interface for LRC lint strategies
type Detector interface {
	Detect(raw string) ([]Issue, error)
}

// Composite runs several detectors and merges their issues by line
type Composite []Detector

func (c Composite) Detect(raw string) ([]Issue, error) {
	var issues []Issue
	for _, d := range c {
		found, err := d.Detect(raw)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
	return issues, nil
}
