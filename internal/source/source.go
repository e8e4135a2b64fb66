package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source supplies raw LRC text
type Source interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

// FileSource reads a single file from disk
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name is the file name without directory and extension
func (f *FileSource) Name() string {
	base := filepath.Base(f.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (f *FileSource) Path() string {
	return f.path
}

func (f *FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Open resolves a path, directory or http(s) URL into sources
func Open(path string) ([]Source, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return []Source{NewHTTPSource(path)}, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return []Source{NewFileSource(path)}, nil
	}

	dir, err := NewDirSource(path)
	if err != nil {
		return nil, err
	}
	if len(dir.Sources()) == 0 {
		return nil, fmt.Errorf("в папке %s не найдено файлов с текстами", path)
	}
	return dir.Sources(), nil
}
