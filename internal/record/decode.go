// Package record reads record files (JSON or YAML) into plain Go values.
//
// Decoding knows nothing about what a record means. Mappings become
// map[string]any, sequences []any, integers int64 and other numbers float64,
// whatever the source format.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is one loosely structured entity loaded from a record file.
type Record = map[string]any

// Format is a supported serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the record format implied by a file name.
func FormatOf(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// IsRecordFile reports whether name has a record file extension.
func IsRecordFile(name string) bool {
	_, ok := FormatOf(name)
	return ok
}

// ReadPayload reads and decodes the top-level value of a record file.
func ReadPayload(path string) (any, error) {
	format, ok := FormatOf(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	var payload any
	switch format {
	case FormatJSON:
		payload, err = decodeJSON(content)
	case FormatYAML:
		payload, err = decodeYAML(content)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	return payload, nil
}

// Decode reads a record file and returns its payload as a list: a top-level
// list is returned as-is, any other non-null value becomes a one-element list.
func Decode(path string) ([]any, error) {
	payload, err := ReadPayload(path)
	if err != nil {
		return nil, err
	}
	return Items(payload), nil
}

// Items turns a decoded payload into a list. When containers are given and the
// payload is a mapping whose first matching container key holds a list, that
// list is returned instead of the mapping itself.
func Items(payload any, containers ...string) []any {
	switch v := payload.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case map[string]any:
		for _, key := range containers {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
		return []any{v}
	default:
		return []any{v}
	}
}

func decodeJSON(content []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return normalize(v), nil
}

func decodeYAML(content []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// normalize rewrites decoded values so JSON and YAML input look the same.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
