package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath     string        `yaml:"input" toml:"input"`
	OutputDir     string        `yaml:"output" toml:"output"`
	Format        string        `yaml:"format" toml:"format"`     // yaml, srt, ass or lrc
	Fallback      float64       `yaml:"fallback" toml:"fallback"` // Window of the last line in seconds
	ApplyOffset   bool          `yaml:"apply_offset" toml:"apply_offset"`
	AudioPath     string        `yaml:"audio" toml:"audio"`
	AudioSync     bool          `yaml:"audio_sync" toml:"audio_sync"`
	TotalDuration float64       `yaml:"total_duration" toml:"total_duration"`
	Workers       int           `yaml:"workers" toml:"workers"`
	FontName      string        `yaml:"font_name" toml:"font_name"`
	FontSize      int           `yaml:"font_size" toml:"font_size"`
	Karaoke       bool          `yaml:"karaoke" toml:"karaoke"` // ASS only
	RedisURL      string        `yaml:"redis_url" toml:"redis_url"`
	RedisPassword string        `yaml:"-" toml:"-"`
	CacheTTL      time.Duration `yaml:"cache_ttl" toml:"cache_ttl"`
	Listen        string        `yaml:"listen" toml:"listen"` // HTTP API address
	ShowStats     bool          `yaml:"stats" toml:"stats"`
	BuildVersion  string        `yaml:"-" toml:"-"`
}

// Formats lists the supported output formats
var Formats = []string{"yaml", "srt", "ass", "lrc"}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		InputPath: "input/lyrics",
		OutputDir: "output",
		Format:    "yaml",
		Fallback:  5.0,
		FontName:  "Arial",
		FontSize:  36,
		CacheTTL:  24 * time.Hour,
		Listen:    ":8080",
	}
}

// Load reads a YAML or TOML (by extension) file on top of the defaults.
// The result is not validated: call Validate after env and flag overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg from the process environment and the given .env files.
// Process variables win over file values. Without files ".env" is tried.
// Only malformed numbers are errors here; Validate runs once all overrides are in.
func ApplyEnv(cfg *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fileVars := map[string]string{}
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
		for k, v := range vars {
			if _, ok := fileVars[k]; !ok {
				fileVars[k] = v
			}
		}
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVars[key]
	}

	if v := lookup("LRCF_INPUT"); v != "" {
		cfg.InputPath = v
	}
	if v := lookup("LRCF_OUTPUT"); v != "" {
		cfg.OutputDir = v
	}
	if v := lookup("LRCF_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := lookup("LRCF_AUDIO"); v != "" {
		cfg.AudioPath = v
	}
	if v := lookup("LRCF_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := lookup("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := lookup("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}

	if v := lookup("LRCF_FALLBACK"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LRCF_FALLBACK: %w", err)
		}
		cfg.Fallback = f
	}
	if v := lookup("LRCF_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LRCF_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := lookup("LRCF_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LRCF_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	return nil
}

// Validate checks the settings that have no safe fallback
func (c *Config) Validate() error {
	if !IsFormat(c.Format) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.Fallback < 0 {
		return fmt.Errorf("fallback must not be negative, got %v", c.Fallback)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// IsFormat reports whether f names a supported output format
func IsFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
