package export

import (
	"fmt"
	"strings"

	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/system"
)

// ASSOptions controls the default style of the generated script
type ASSOptions struct {
	FontName string
	FontSize int
	PlayResX int
	PlayResY int
	Karaoke  bool // Spread each cue over its characters with \k tags
}

// DefaultASSOptions returns a 1280x720 script with a centered bottom style
func DefaultASSOptions() ASSOptions {
	return ASSOptions{
		FontName: "Arial",
		FontSize: 36,
		PlayResX: 1280,
		PlayResY: 720,
	}
}

// ASS renders the cue sheet as an Advanced SubStation Alpha script
func ASS(sheet *director.CueSheet, opts ASSOptions) string {
	def := DefaultASSOptions()
	if opts.FontName == "" {
		opts.FontName = def.FontName
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.PlayResX <= 0 || opts.PlayResY <= 0 {
		opts.PlayResX, opts.PlayResY = def.PlayResX, def.PlayResY
	}

	title := sheet.Title
	if title == "" {
		title = sheet.Source
	}

	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	fmt.Fprintf(buf, "[Script Info]\nTitle: %s\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nTimer: 100.0000\n\n",
		title, opts.PlayResX, opts.PlayResY)

	buf.WriteString("[V4+ Styles]\n")
	buf.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(buf, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H64000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n\n",
		opts.FontName, opts.FontSize)

	buf.WriteString("[Events]\n")
	buf.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, c := range sheet.Cues {
		if c.Text == "" {
			continue
		}
		text := escapeASS(c.Text)
		if opts.Karaoke {
			text = karaoke(c.Text, int((c.End-c.Start)*100))
		}
		fmt.Fprintf(buf, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", FormatASSTime(c.Start), FormatASSTime(c.End), text)
	}

	return buf.String()
}

// karaoke splits text into characters and spreads durationCS evenly over them.
// The remainder goes to the last character so the total matches the cue.
// Characters are escaped one by one so a line break stays a single \N unit.
func karaoke(text string, durationCS int) string {
	runes := []rune(strings.ReplaceAll(text, "\r", ""))
	n := len(runes)
	if n == 0 || durationCS <= 0 {
		return escapeASS(text)
	}

	per := durationCS / n
	var sb strings.Builder
	for i, r := range runes {
		k := per
		if i == n-1 {
			k = durationCS - per*(n-1)
		}
		fmt.Fprintf(&sb, "{\\k%d}%s", k, escapeASS(string(r)))
	}
	return sb.String()
}
