package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ivlev/lrcframe/internal/config"
	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/export"
	"github.com/ivlev/lrcframe/internal/log"
	"github.com/ivlev/lrcframe/internal/lrc"
	"github.com/ivlev/lrcframe/internal/source"
	"github.com/ivlev/lrcframe/internal/store"
	"github.com/ivlev/lrcframe/internal/system"
	"golang.org/x/sync/errgroup"
)

// DurationProbe returns the length of an audio file in seconds
type DurationProbe func(ctx context.Context, path string) (float64, error)

type Project struct {
	Config   *config.Config
	Sources  []source.Source
	Cache    store.Cache // Optional
	Director *director.Director
	Probe    DurationProbe
	Out      io.Writer // Console progress, io.Discard to silence
}

func NewProject(cfg *config.Config, srcs []source.Source, cache store.Cache) *Project {
	d := director.NewDirector()
	if cfg.Fallback > 0 {
		d.Fallback = cfg.Fallback
	}
	return &Project{
		Config:   cfg,
		Sources:  srcs,
		Cache:    cache,
		Director: d,
		Probe:    system.GetAudioDuration,
		Out:      os.Stdout,
	}
}

// Result describes one processed source
type Result struct {
	Source string
	Output string
	Lines  int
	Cues   int
	Cached bool
	Short  []int // IDs of cues shorter than Director.MinGap
}

// Report summarizes a Run
type Report struct {
	Results       []Result
	TotalDuration float64
	CacheHits     int
	ParseTime     time.Duration
	TotalTime     time.Duration
}

// Lines returns the number of timed lines over all sources
func (r *Report) Lines() int {
	n := 0
	for _, res := range r.Results {
		n += res.Lines
	}
	return n
}

// Run parses every source concurrently and writes one output per source
func (p *Project) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	logger := log.WithComponent("engine")

	if len(p.Sources) == 0 {
		return nil, fmt.Errorf("нет источников с текстами")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать папку %s: %w", p.Config.OutputDir, err)
	}

	totalDuration := p.resolveDuration(ctx)

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}

	fmt.Fprintln(p.out(), "--- [PROJECT: LRC ENGINE] ---")
	fmt.Fprintf(p.out(), "[*] Источников: %d | Формат: %s | Потоки: %d\n", len(p.Sources), p.Config.Format, workers)
	fmt.Fprintln(p.out(), "-----------------------------")

	outputs := p.outputPaths()
	results := make([]Result, len(p.Sources))
	var parseNanos int64
	var done int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range p.Sources {
		i, src := i, src
		g.Go(func() error {
			res, parseTime, err := p.process(gctx, src, outputs[i], totalDuration)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = res
			atomic.AddInt64(&parseNanos, int64(parseTime))

			n := atomic.AddInt32(&done, 1)
			fmt.Fprintf(p.out(), "[>] Готово: %d/%d (%s)\n", n, len(p.Sources), src.Name())
			logger.Debug("source processed", "source", src.Name(), "lines", res.Lines, "cached", res.Cached)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Results:       results,
		TotalDuration: totalDuration,
		ParseTime:     time.Duration(parseNanos),
		TotalTime:     time.Since(startTime),
	}
	for _, r := range results {
		if r.Cached {
			report.CacheHits++
		}
		if len(r.Short) > 0 {
			logger.Warn("[!] Слишком короткие строки", "source", r.Source, "cues", r.Short)
		}
	}

	if p.Config.ShowStats {
		p.printReport(report)
	}

	return report, nil
}

// process handles a single source end to end
func (p *Project) process(ctx context.Context, src source.Source, outputPath string, totalDuration float64) (Result, time.Duration, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return Result{}, 0, fmt.Errorf("ошибка чтения: %w", err)
	}

	parseStart := time.Now()
	lines, cached := p.parse(ctx, raw)
	header := lrc.ParseHeader(raw)
	if p.Config.ApplyOffset && header.Offset != 0 {
		lines = lrc.Shift(lines, header.OffsetSeconds())
	}
	parseTime := time.Since(parseStart)

	doc := lrc.Document{Header: header, Lines: lines}
	sheet, err := p.Director.GenerateCueSheet(doc, src.Name(), totalDuration)
	if err != nil {
		return Result{}, parseTime, err
	}

	data, err := p.Render(sheet)
	if err != nil {
		return Result{}, parseTime, err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return Result{}, parseTime, fmt.Errorf("ошибка записи %s: %w", outputPath, err)
	}

	return Result{
		Source: src.Name(),
		Output: outputPath,
		Lines:  len(lines),
		Cues:   len(sheet.Cues),
		Cached: cached,
		Short:  p.Director.ShortCues(sheet),
	}, parseTime, nil
}

// parse consults the cache first. Cache failures only cost a re-parse.
func (p *Project) parse(ctx context.Context, raw string) ([]lrc.TimedLine, bool) {
	if p.Cache == nil {
		return lrc.Parse(raw), false
	}

	logger := log.WithComponent("cache")
	key := store.Key(raw)

	lines, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed", "key", key, "err", err)
	} else if ok {
		return lines, true
	}

	lines = lrc.Parse(raw)
	if err := p.Cache.Set(ctx, key, lines); err != nil {
		logger.Warn("cache set failed", "key", key, "err", err)
	}
	return lines, false
}

// Render encodes a cue sheet in the configured output format
func (p *Project) Render(sheet *director.CueSheet) ([]byte, error) {
	switch p.Config.Format {
	case "yaml", "":
		return director.MarshalCueSheet(sheet)
	case "srt":
		return []byte(export.SRT(sheet)), nil
	case "ass":
		return []byte(export.ASS(sheet, export.ASSOptions{
			FontName: p.Config.FontName,
			FontSize: p.Config.FontSize,
			Karaoke:  p.Config.Karaoke,
		})), nil
	case "lrc":
		return []byte(lrc.Format(sheet.Lines())), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", p.Config.Format)
	}
}

// resolveDuration prefers the audio length when audio sync is on
func (p *Project) resolveDuration(ctx context.Context) float64 {
	total := p.Config.TotalDuration
	if !p.Config.AudioSync || p.Config.AudioPath == "" || p.Probe == nil {
		return total
	}

	audioDur, err := p.Probe(ctx, p.Config.AudioPath)
	if err != nil {
		log.WithComponent("engine").Warn("[!] Не удалось получить длительность аудио", "audio", p.Config.AudioPath, "err", err)
		return total
	}

	fmt.Fprintf(p.out(), "[*] Длительность установлена по аудио: %.2fs\n", audioDur)
	return audioDur
}

// OutputPath builds <outdir>/<clean name>.<ext> for a source name
func (p *Project) OutputPath(name string) string {
	cleanName := strings.ReplaceAll(name, " ", "_")
	if cleanName == "" {
		cleanName = "lyrics"
	}
	return filepath.Join(p.Config.OutputDir, cleanName+extension(p.Config.Format))
}

// outputPaths assigns every source a distinct output file
func (p *Project) outputPaths() []string {
	paths := make([]string, len(p.Sources))
	used := make(map[string]int)

	for i, src := range p.Sources {
		path := p.OutputPath(src.Name())
		used[path]++
		if n := used[path]; n > 1 {
			ext := filepath.Ext(path)
			path = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n, ext)
		}
		paths[i] = path
	}
	return paths
}

func extension(format string) string {
	if format == "" {
		return ".yaml"
	}
	return "." + format
}

func (p *Project) printReport(r *Report) {
	fps := 0.0
	if s := r.TotalTime.Seconds(); s > 0 {
		fps = float64(r.Lines()) / s
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Parsing (CPU): %.3fs\n"+
			"Sources: %d | Lines: %d | Cache hits: %d\n"+
			"Lines/sec: %.0f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.TotalTime.Seconds(), r.ParseTime.Seconds(), len(r.Results), r.Lines(), r.CacheHits, fps,
	)
	fmt.Fprint(p.out(), report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Sources: %d | Lines: %d | Total: %.3fs | Parse: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		len(r.Results),
		r.Lines(),
		r.TotalTime.Seconds(),
		r.ParseTime.Seconds(),
	)

	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Fprintf(p.out(), "[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func (p *Project) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}
