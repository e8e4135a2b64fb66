package engine

import (
	"context"
	"fmt"

	"github.com/ivlev/lrcframe/internal/analyzer"
	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/lrc"
	"github.com/ivlev/lrcframe/internal/source"
	"github.com/ivlev/lrcframe/internal/timeline"
)

// Timeline reads and parses one source into a Timeline
func (p *Project) Timeline(ctx context.Context, src source.Source) (*timeline.Timeline, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", src.Name(), err)
	}

	lines, _ := p.parse(ctx, raw)
	if p.Config.ApplyOffset {
		if h := lrc.ParseHeader(raw); h.Offset != 0 {
			lines = lrc.Shift(lines, h.OffsetSeconds())
		}
	}

	return timeline.New(lines, p.Director.Fallback), nil
}

// CueSheetTimeline rebuilds a timeline from a cue sheet written by Run.
// The last cue keeps the end stored in the sheet.
func (p *Project) CueSheetTimeline(path string) (*timeline.Timeline, error) {
	sheet, err := director.ReadCueSheet(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}

	fallback := p.Director.Fallback
	if ws := sheet.Windows(); len(ws) > 0 {
		if d := ws[len(ws)-1].Duration(); d > 0 {
			fallback = d
		}
	}
	return timeline.New(sheet.Lines(), fallback), nil
}

// LoadTimeline opens path as a cue sheet or as a lyrics source (file or URL)
func (p *Project) LoadTimeline(ctx context.Context, path string) (*timeline.Timeline, error) {
	if director.IsCueSheetPath(path) {
		return p.CueSheetTimeline(path)
	}

	srcs, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	return p.Timeline(ctx, srcs[0])
}

// Lint runs the analyzer variant over every source
func (p *Project) Lint(ctx context.Context, variant string) (map[string][]analyzer.Issue, error) {
	det, err := analyzer.NewDetector(variant)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]analyzer.Issue)
	for _, src := range p.Sources {
		raw, err := src.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения %s: %w", src.Name(), err)
		}
		issues, err := det.Detect(raw)
		if err != nil {
			return nil, err
		}
		if len(issues) > 0 {
			out[src.Name()] = issues
		}
	}
	return out, nil
}
