package source

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ivlev/lrcframe/internal/system"
)

// DirSource is every lyrics file in one directory, in name order
type DirSource struct {
	dir   string
	files []*FileSource
}

func NewDirSource(path string) (*DirSource, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && system.HasLyricsExtension(entry.Name()) {
			paths = append(paths, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(paths)

	files := make([]*FileSource, len(paths))
	for i, p := range paths {
		files[i] = NewFileSource(p)
	}

	return &DirSource{dir: path, files: files}, nil
}

// Sources returns the files as independent sources
func (d *DirSource) Sources() []Source {
	out := make([]Source, len(d.files))
	for i, f := range d.files {
		out[i] = f
	}
	return out
}

func (d *DirSource) Len() int {
	return len(d.files)
}
