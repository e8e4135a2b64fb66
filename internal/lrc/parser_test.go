package lrc

import (
	"reflect"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"[01:02.500] hello", 62.5},
		{"[00:00] start", 0},
		{"[00:10.25] x", 10.25},
		{"[03:07] x", 187},
		{"[00:75] x", 75}, // seconds are not range checked
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lines := Parse(tt.input)
			if len(lines) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(lines))
			}
			if lines[0].StartTime != tt.expected {
				t.Errorf("Expected start %.3f, got %.3f", tt.expected, lines[0].StartTime)
			}
		})
	}
}

func TestParseStyleCoercion(t *testing.T) {
	lines := Parse("[00:01.00] Hello {size:100, font:gothic}")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	l := lines[0]
	if l.Text != "Hello" {
		t.Errorf("Expected text %q, got %q", "Hello", l.Text)
	}

	size, ok := l.Style.Get("size")
	if !ok || !size.IsNumber() {
		t.Fatalf("Expected numeric size, got %+v", l.Style)
	}
	if f, _ := size.Float(); f != 100 {
		t.Errorf("Expected size 100, got %v", f)
	}

	font, ok := l.Style.Get("font")
	if !ok || font.IsNumber() {
		t.Fatalf("Expected textual font, got %+v", l.Style)
	}
	if s, _ := font.Str(); s != "gothic" {
		t.Errorf("Expected font gothic, got %q", s)
	}
}

func TestParseStyleValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		key      string
		expected Value
	}{
		{"boolean stays string", "[00:01] a {flash:true}", "flash", String("true")},
		{"enum token", "[00:01] a {exit:scatter}", "exit", String("scatter")},
		{"negative float", "[00:01] a {tilt:-2.5}", "tilt", Number(-2.5)},
		{"exponent", "[00:01] a {scale:1e2}", "scale", Number(100)},
		{"nan rejected", "[00:01] a {x:NaN}", "x", String("NaN")},
		{"inf rejected", "[00:01] a {x:Inf}", "x", String("Inf")},
		{"color with hash", "[00:01] a {color:#ff0000}", "color", String("#ff0000")},
		{"value keeps later colons", "[00:01] a {at:12:30}", "at", String("12:30")},
		{"last duplicate wins", "[00:01] a {k:1, k:two}", "k", String("two")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Parse(tt.input)
			if len(lines) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(lines))
			}
			got, ok := lines[0].Style.Get(tt.key)
			if !ok {
				t.Fatalf("Key %q missing from %+v", tt.key, lines[0].Style)
			}
			if got != tt.expected {
				t.Errorf("Expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestParseMalformedStylePair(t *testing.T) {
	lines := Parse("[00:02.00] word {color}")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "word" {
		t.Errorf("Expected annotation to be removed, got %q", lines[0].Text)
	}
	if len(lines[0].Style) != 0 {
		t.Errorf("Expected no style keys, got %+v", lines[0].Style)
	}

	lines = Parse("[00:02.00] word {color, :red, size:, font:serif}")
	if len(lines[0].Style) != 1 {
		t.Fatalf("Expected only font to survive, got %+v", lines[0].Style)
	}
	if _, ok := lines[0].Style.Get("font"); !ok {
		t.Errorf("Expected font key, got %+v", lines[0].Style)
	}
}

func TestParseEmptyTextMarker(t *testing.T) {
	lines := Parse("[00:10.000]")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	l := lines[0]
	if l.Text != "" || l.StartTime != 10.0 || l.Style != nil {
		t.Errorf("Expected empty marker at 10s, got %+v", l)
	}

	// Style-only control point
	lines = Parse("[00:12.00] {escalate:true}")
	if lines[0].Text != "" {
		t.Errorf("Expected empty text, got %q", lines[0].Text)
	}
	if _, ok := lines[0].Style.Get("escalate"); !ok {
		t.Errorf("Expected escalate key, got %+v", lines[0].Style)
	}
}

func TestParseSkipsUntimedLines(t *testing.T) {
	input := "[ti:Some Song]\n" +
		"just a header line\n" +
		"\n" +
		"[0:01] short minutes\n" +
		"[00:1] short seconds\n" +
		"[00:01.5] one digit fraction\n" +
		"[00:03.00] real line"

	lines := Parse(input)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 timed line, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "real line" {
		t.Errorf("Unexpected text %q", lines[0].Text)
	}
}

func TestParseOnlyFirstTagIsUsed(t *testing.T) {
	lines := Parse("[00:01.00][00:02.00] echo")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].StartTime != 1.0 {
		t.Errorf("Expected start 1.0, got %.2f", lines[0].StartTime)
	}
	if lines[0].Text != "[00:02.00] echo" {
		t.Errorf("Expected second tag to stay in text, got %q", lines[0].Text)
	}
}

func TestParseCRLF(t *testing.T) {
	lines := Parse("[00:01.00] one\r\n[00:02.00] two\r\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "one" || lines[1].Text != "two" {
		t.Errorf("Carriage returns leaked into text: %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	lines := Parse("")
	if lines == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(lines) != 0 {
		t.Errorf("Expected 0 lines, got %d", len(lines))
	}
}

func TestParseSortsOutOfOrderInput(t *testing.T) {
	input := "[00:30.00] c\n[00:20.00] b\n[00:10.00] a\n[00:20.00] b2"
	lines := Parse(input)
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(lines))
	}
	for i := 0; i < len(lines)-1; i++ {
		if lines[i].StartTime > lines[i+1].StartTime {
			t.Errorf("Lines %d and %d out of order: %.2f > %.2f", i, i+1, lines[i].StartTime, lines[i+1].StartTime)
		}
	}
	if lines[0].Text != "a" || lines[3].Text != "c" {
		t.Errorf("Unexpected order: %+v", lines)
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "[00:05.00] x {size:10, color:red}\n[00:01.00] y\n[00:05.00] z"
	first := Parse(input)
	second := Parse(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestParseDoesNotShareStyles(t *testing.T) {
	lines := Parse("[00:01] a {k:1}\n[00:02] b {k:1}")
	lines[0].Style["k"] = String("changed")
	if v, _ := lines[1].Style.Get("k"); v != Number(1) {
		t.Errorf("Styles are shared between lines: %+v", lines[1].Style)
	}
}

func TestParseLine(t *testing.T) {
	tl, ok := ParseLine("[00:02.50] hi {size:2}\r")
	if !ok || tl.StartTime != 2.5 || tl.Text != "hi" {
		t.Errorf("Unexpected result: %+v (ok=%v)", tl, ok)
	}
	if _, ok := ParseLine("[ti:Title]"); ok {
		t.Error("Header tag must not parse as a timed line")
	}
}
