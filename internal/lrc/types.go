package lrc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TimedLine is a single parsed LRC entry
type TimedLine struct {
	StartTime float64 `json:"start_time" yaml:"start_time"` // Seconds from the beginning of the track
	Text      string  `json:"text" yaml:"text"`             // Empty for timing-only markers
	Style     Style   `json:"style,omitempty" yaml:"style,omitempty"`
}

// Style holds free-form rendering hints taken from a {key:value} annotation.
// Key semantics belong to the host.
type Style map[string]Value

// Get returns the value stored under key
func (s Style) Get(key string) (Value, bool) {
	v, ok := s[key]
	return v, ok
}

// clone returns an independent copy of the style map
func (s Style) clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type valueKind uint8

const (
	kindString valueKind = iota
	kindNumber
)

// Value is either a number or a string
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Number creates a numeric Value
func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// String creates a textual Value
func String(s string) Value {
	return Value{kind: kindString, str: s}
}

// IsNumber reports whether the value holds the numeric variant
func (v Value) IsNumber() bool {
	return v.kind == kindNumber
}

// Float returns the numeric variant
func (v Value) Float() (float64, bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the textual variant
func (v Value) Str() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.str, true
}

// String renders the value the way it would appear in an annotation
func (v Value) String() string {
	if v.kind == kindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case string:
		*v = String(x)
	default:
		return fmt.Errorf("style value must be a number or a string, got %s", string(data))
	}
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.kind == kindNumber {
		return v.num, nil
	}
	return v.str, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("style value must be a scalar (line %d)", node.Line)
	}
	// Quoted scalars stay strings even if they look numeric
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 {
		if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
			f, err := strconv.ParseFloat(node.Value, 64)
			if err == nil {
				*v = Number(f)
				return nil
			}
		}
	}
	*v = String(node.Value)
	return nil
}
