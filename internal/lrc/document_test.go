package lrc

import (
	"encoding/json"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseHeader(t *testing.T) {
	input := "[ti:Night Drive]\n[ar:Someone]\n[al:Roads]\n[by:editor]\n[length:03:21]\n[offset:+250]\n[re:tool]\n[00:01.00] first"

	h := ParseHeader(input)
	if h.Title != "Night Drive" || h.Artist != "Someone" || h.Album != "Roads" || h.By != "editor" {
		t.Errorf("Unexpected header: %+v", h)
	}
	if h.Length != "03:21" {
		t.Errorf("Expected length 03:21, got %q", h.Length)
	}
	if h.Offset != 250 {
		t.Errorf("Expected offset 250, got %d", h.Offset)
	}
	if h.Extra["re"] != "tool" {
		t.Errorf("Expected extra tag re, got %+v", h.Extra)
	}
	if h.OffsetSeconds() != -0.25 {
		t.Errorf("Expected shift -0.25, got %f", h.OffsetSeconds())
	}
}

func TestParseDocument(t *testing.T) {
	doc := ParseDocument("[ti:T]\n[00:02.00] b\n[00:01.00] a")
	if doc.Header.Title != "T" {
		t.Errorf("Expected title T, got %q", doc.Header.Title)
	}
	if len(doc.Lines) != 2 || doc.Lines[0].Text != "a" {
		t.Errorf("Unexpected lines: %+v", doc.Lines)
	}
}

func TestShift(t *testing.T) {
	lines := Parse("[00:00.10] a {size:1}\n[00:02.00] b")
	shifted := Shift(lines, -0.5)

	if shifted[0].StartTime != 0 {
		t.Errorf("Expected clamp to 0, got %f", shifted[0].StartTime)
	}
	if shifted[1].StartTime != 1.5 {
		t.Errorf("Expected 1.5, got %f", shifted[1].StartTime)
	}
	if lines[1].StartTime != 2.0 {
		t.Errorf("Shift mutated its input: %f", lines[1].StartTime)
	}

	shifted[0].Style["size"] = Number(2)
	if v, _ := lines[0].Style.Get("size"); v != Number(1) {
		t.Errorf("Shift shares style maps with its input")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	input := "[00:01.50] hello {size:100, font:gothic}\n[00:03.00]\n[01:02.25] {flash:true}\n[00:02.00] world"
	lines := Parse(input)

	again := Parse(Format(lines))
	if len(again) != len(lines) {
		t.Fatalf("Expected %d lines, got %d", len(lines), len(again))
	}
	for i := range lines {
		if math.Abs(again[i].StartTime-lines[i].StartTime) > 0.005 {
			t.Errorf("Line %d start %f != %f", i, again[i].StartTime, lines[i].StartTime)
		}
		if again[i].Text != lines[i].Text {
			t.Errorf("Line %d text %q != %q", i, again[i].Text, lines[i].Text)
		}
		if len(again[i].Style) != len(lines[i].Style) {
			t.Errorf("Line %d style %+v != %+v", i, again[i].Style, lines[i].Style)
		}
		for k, v := range lines[i].Style {
			if again[i].Style[k] != v {
				t.Errorf("Line %d style key %s: %#v != %#v", i, k, again[i].Style[k], v)
			}
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "[00:00.00]"},
		{62.5, "[01:02.50]"},
		{59.999, "[01:00.00]"},
		{-3, "[00:00.00]"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.expected {
			t.Errorf("FormatTimestamp(%f): expected %s, got %s", tt.seconds, tt.expected, got)
		}
	}
}

func TestValueEncoding(t *testing.T) {
	style := Style{"size": Number(100), "flash": String("true"), "code": String("42")}

	data, err := json.Marshal(style)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var fromJSON Style
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	out, err := yaml.Marshal(style)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var fromYAML Style
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}

	for _, decoded := range []Style{fromJSON, fromYAML} {
		for k, v := range style {
			if decoded[k] != v {
				t.Errorf("Key %s: expected %#v, got %#v", k, v, decoded[k])
			}
		}
	}
}

func TestIsHeaderTag(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"[ti:Night Drive]", true},
		{"  [offset:+250]  ", true},
		{"[00:01.00] text", false},
		{"[ti:Title] trailing", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if got := IsHeaderTag(tt.line); got != tt.expected {
			t.Errorf("IsHeaderTag(%q): expected %v, got %v", tt.line, tt.expected, got)
		}
	}
}
