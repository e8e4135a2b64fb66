package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ivlev/lrcframe/internal/api"
	"github.com/ivlev/lrcframe/internal/config"
	"github.com/ivlev/lrcframe/internal/director"
	"github.com/ivlev/lrcframe/internal/engine"
	"github.com/ivlev/lrcframe/internal/log"
	"github.com/ivlev/lrcframe/internal/source"
	"github.com/ivlev/lrcframe/internal/store"
	"github.com/ivlev/lrcframe/internal/system"
	"github.com/ivlev/lrcframe/internal/timeline"
)

var buildVersion = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()
	defer log.Close()

	configPtr := flag.String("config", "", "YAML-файл настроек (флаги имеют приоритет)")
	inputPtr := flag.String("input", "", "Файл .lrc, cue sheet .yaml, папка или http(s) URL (по умолчанию: самый свежий файл в input/lyrics/)")
	outputPtr := flag.String("output", "", "Папка для результатов (по умолчанию: output/)")
	formatPtr := flag.String("format", "", "Формат результата: yaml, srt, ass, lrc")
	fallbackPtr := flag.Float64("fallback", 0, "Длительность последней строки в секундах, если длина трека неизвестна")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", false, "Последняя строка длится до конца аудио")
	offsetPtr := flag.Bool("offset", false, "Применить тег [offset:] из файла")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу ядер)")
	atPtr := flag.Float64("at", -1, "Показать активную строку в момент времени (сек) и выйти")
	framePtr := flag.Int("frame", -1, "Показать активную строку на кадре N (вместо -at)")
	fpsPtr := flag.Int("fps", 25, "Частота кадров для -frame")
	lintPtr := flag.String("lint", "", "Проверить файлы: timing, style, all")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	servePtr := flag.Bool("serve", false, "Запустить HTTP API (parse/locate/lint) вместо обработки файлов")
	listenPtr := flag.String("listen", "", "Адрес HTTP API (по умолчанию :8080)")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка окружения: %v\n", err)
		return 1
	}

	// Явно заданные флаги перекрывают файл и окружение
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputDir = *outputPtr
		case "format":
			cfg.Format = *formatPtr
		case "fallback":
			cfg.Fallback = *fallbackPtr
		case "audio":
			cfg.AudioPath = *audioPtr
		case "audio-sync":
			cfg.AudioSync = *audioSyncPtr
		case "offset":
			cfg.ApplyOffset = *offsetPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "listen":
			cfg.Listen = *listenPtr
		}
	})
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache store.Cache
	if cfg.RedisURL != "" {
		rc, err := store.NewRedisCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			log.L().Warn("[!] Redis недоступен, работаем без кэша", "err", err)
		} else if err := rc.Ping(ctx); err != nil {
			log.L().Warn("[!] Redis недоступен, работаем без кэша", "err", err)
			rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	if *servePtr {
		fmt.Printf("[*] HTTP API: %s\n", cfg.Listen)
		if err := api.Serve(ctx, cfg.Listen, api.NewLyricsAPI(cache, cfg.Fallback)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[-] Ошибка сервера: %v\n", err)
			return 1
		}
		return 0
	}

	// Создаем нужные директории, если их нет
	if err := ensureDirs("input/lyrics", "input/audio"); err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		return 1
	}

	if *atPtr >= 0 || *framePtr >= 0 {
		return runQuery(ctx, engine.NewProject(cfg, nil, cache), *atPtr, *framePtr, *fpsPtr)
	}

	srcs, err := source.Open(cfg.InputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка инициализации источника: %v\n", err)
		return 1
	}

	if cfg.AudioSync && cfg.AudioPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			cfg.AudioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", cfg.AudioPath)
		}
	}

	project := engine.NewProject(cfg, srcs, cache)

	if *lintPtr != "" {
		return runLint(ctx, project, srcs, *lintPtr)
	}

	report, err := project.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка проекта: %v\n", err)
		return 1
	}

	for _, r := range report.Results {
		fmt.Printf("[+++] Успех! Результат: %s (%d строк)\n", r.Output, r.Lines)
	}
	return 0
}

func ensureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("не удалось создать %s: %w", d, err)
		}
	}
	return nil
}

// queryPath picks the file for a single-track query.
// For a directory it takes the newest lyrics file, then the newest cue sheet in the output directory.
func queryPath(cfg *config.Config) (string, error) {
	fi, err := os.Stat(cfg.InputPath)
	if err != nil || !fi.IsDir() {
		return cfg.InputPath, nil
	}

	latest, err := system.FindLatestLyrics(cfg.InputPath)
	if err == nil {
		return latest, nil
	}
	if sheet, serr := director.FindLatestCueSheet(cfg.OutputDir); serr == nil {
		return sheet, nil
	}
	return "", fmt.Errorf("%v. Положите .lrc в %s", err, cfg.InputPath)
}

func runQuery(ctx context.Context, project *engine.Project, at float64, frame, fps int) int {
	path, err := queryPath(project.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		return 1
	}
	if path != project.Config.InputPath {
		fmt.Printf("[*] Выбран файл: %s\n", path)
	}

	tl, err := project.LoadTimeline(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		return 1
	}

	t := at
	var f timeline.Frame
	var ok bool
	if frame >= 0 {
		if fps <= 0 {
			fmt.Fprintf(os.Stderr, "[-] Ошибка: -fps должен быть больше нуля\n")
			return 1
		}
		t = float64(frame) / float64(fps)
		f, ok = tl.AtFrame(frame, fps)
	} else {
		f, ok = tl.At(at)
	}
	if !ok {
		fmt.Printf("[*] %.3fs: нет активной строки\n", t)
		return 0
	}

	text := f.Line.Text
	if text == "" {
		text = "(пауза)"
	}
	fmt.Printf("[*] %.3fs: #%d %q [%.3f - %.3f) %.0f%%\n", t, f.Index+1, text, f.Window.Start, f.Window.End, f.Progress*100)
	for k, v := range f.Line.Style {
		fmt.Printf("    %s = %s\n", k, v)
	}
	return 0
}

func runLint(ctx context.Context, project *engine.Project, srcs []source.Source, variant string) int {
	issues, err := project.Lint(ctx, variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		return 1
	}

	total := 0
	for _, src := range srcs {
		for _, is := range issues[src.Name()] {
			fmt.Printf("[!] %s:%d: %s: %s\n", src.Name(), is.Line, is.Kind, is.Message)
			total++
		}
	}

	if total > 0 {
		fmt.Printf("[-] Найдено проблем: %d\n", total)
		return 2
	}
	fmt.Printf("[+++] Проблем не найдено (%s)\n", strings.Join(sourceNames(srcs), ", "))
	return 0
}

func sourceNames(srcs []source.Source) []string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.Name()
	}
	return names
}
