package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "timing":
		return NewTimingDetector(), nil
	case "style":
		return NewStyleDetector(), nil
	case "all", "":
		return Composite{NewTimingDetector(), NewStyleDetector()}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
