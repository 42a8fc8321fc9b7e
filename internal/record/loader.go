package record

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// Loader reads record files and never fails: every problem becomes a logged
// diagnostic and an empty result.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader that reports diagnostics through logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

type loadOptions struct {
	containers []string
}

// Option customizes a single Load or LoadDir call.
type Option func(*loadOptions)

// WithContainer unwraps a top-level mapping whose key holds a list of records.
// Keys are tried in order; the first one holding a list wins.
func WithContainer(keys ...string) Option {
	return func(o *loadOptions) {
		o.containers = append(o.containers, keys...)
	}
}

// Load decodes one record file. Problems are logged and yield an empty list.
func (l *Loader) Load(path string, opts ...Option) []any {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload, err := ReadPayload(path)
	if err != nil {
		l.report(path, err)
		return []any{}
	}
	return Items(payload, o.containers...)
}

func (l *Loader) report(path string, err error) {
	switch {
	case errors.Is(err, ErrFileNotFound):
		l.logger.Info("Record file not found", logfields.Path(path))
	case errors.Is(err, ErrEmptyFile):
		l.logger.Warn("Record file is empty", logfields.Path(path))
	case errors.Is(err, ErrUnsupportedFormat):
		l.logger.Warn("Unsupported record file type", logfields.Path(path))
	default:
		l.logger.Error("Failed to load record file", logfields.Path(path), logfields.Error(err))
	}
}

// File is one record file that yielded data.
type File struct {
	Path  string
	Name  string
	Items []any
}

// DirResult summarizes loading every record file in a directory.
type DirResult struct {
	Dir     string
	Exists  bool
	Scanned int
	Files   []File
}

// Items returns the items of every file, in file order.
func (r DirResult) Items() []any {
	var out []any
	for _, f := range r.Files {
		out = append(out, f.Items...)
	}
	return out
}

// Records returns the mapping-shaped items of every file, in file order.
func (r DirResult) Records() []Record {
	return Records(r.Items())
}

// LoadDir loads every record file directly inside dir, sorted by name.
func (l *Loader) LoadDir(dir string, opts ...Option) DirResult {
	result := DirResult{Dir: dir}

	files, err := ListFiles(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Cannot read record directory", logfields.Dir(dir), logfields.Error(err))
		}
		return result
	}
	result.Exists = true

	for _, path := range files {
		result.Scanned++
		items := l.Load(path, opts...)
		if len(items) == 0 {
			continue
		}
		result.Files = append(result.Files, File{Path: path, Name: filepath.Base(path), Items: items})
	}
	return result
}

// ListFiles returns the record files directly inside dir, sorted by name.
// Hidden files and subdirectories are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsRecordFile(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// Records filters items down to mapping-shaped records.
func Records(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// First returns the first item when it is a mapping.
func First(items []any) (Record, bool) {
	if len(items) == 0 {
		return nil, false
	}
	rec, ok := items[0].(map[string]any)
	return rec, ok
}
