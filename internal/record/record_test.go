package record

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodeJSONNumbers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "loc.json", `{"lat": 0, "lng": -73.5, "zip": 10001, "tags": ["a", 2]}`)

	items, err := Decode(path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	rec := items[0].(map[string]any)
	assert.Equal(t, int64(0), rec["lat"])
	assert.Equal(t, -73.5, rec["lng"])
	assert.Equal(t, int64(10001), rec["zip"])
	assert.Equal(t, []any{"a", int64(2)}, rec["tags"])
}

func TestDecodeYAMLMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "a.json", `[{"name": "Acme", "rating": 4, "geo": {"latitude": 1.5}}]`)
	yamlPath := writeFile(t, dir, "a.YML", "- name: Acme\n  rating: 4\n  geo:\n    latitude: 1.5\n")

	fromJSON, err := Decode(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Decode(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)
}

func TestDecodeYAMLNonStringKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hours.yaml", "1: monday\ntrue: yes\n")

	items, err := Decode(path)
	require.NoError(t, err)
	rec := items[0].(map[string]any)
	assert.Equal(t, "monday", rec["1"])
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "nope.json"), ErrFileNotFound},
		{"empty", writeFile(t, dir, "empty.yaml", "  \n\t\n"), ErrEmptyFile},
		{"unsupported", writeFile(t, dir, "data.csv", "a,b\n"), ErrUnsupportedFormat},
		{"malformed json", writeFile(t, dir, "bad.json", `{"a": `), ErrMalformed},
		{"trailing json", writeFile(t, dir, "trail.json", `{"a": 1} {"b": 2}`), ErrMalformed},
		{"malformed yaml", writeFile(t, dir, "bad.yaml", "a: [1, 2\n"), ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.path)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestItems(t *testing.T) {
	locs := []any{map[string]any{"name": "A"}, map[string]any{"name": "B"}}
	container := map[string]any{"locations": locs}

	assert.Empty(t, Items(nil))
	assert.Equal(t, locs, Items(locs))
	assert.Equal(t, []any{container}, Items(container))
	assert.Equal(t, locs, Items(container, "locations"))
	assert.Equal(t, locs, Items(container, "faqs", "locations"))

	notAList := map[string]any{"locations": "downtown"}
	assert.Equal(t, []any{notAList}, Items(notAList, "locations"))
}

func TestLoaderFailsSoft(t *testing.T) {
	var logs bytes.Buffer
	loader := NewLoader(slog.New(slog.NewTextHandler(&logs, nil)))
	dir := t.TempDir()

	assert.Empty(t, loader.Load(filepath.Join(dir, "missing.json")))
	assert.Empty(t, loader.Load(writeFile(t, dir, "bad.json", "{")))
	assert.Contains(t, logs.String(), "Failed to load record file")
}

func TestLoadDir(t *testing.T) {
	loader := NewLoader(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "locations:\n  - name: North\n  - name: South\n")
	writeFile(t, dir, "a.json", `{"name": "Main"}`)
	writeFile(t, dir, "c.json", `{`)
	writeFile(t, dir, ".hidden.json", `{"name": "Hidden"}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o750))

	result := loader.LoadDir(dir, WithContainer("locations"))
	require.True(t, result.Exists)
	assert.Equal(t, 3, result.Scanned)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.json", result.Files[0].Name)
	assert.Equal(t, "b.yaml", result.Files[1].Name)

	var names []any
	for _, rec := range result.Records() {
		names = append(names, rec["name"])
	}
	assert.Equal(t, []any{"Main", "North", "South"}, names)
}

func TestLoadDirMissing(t *testing.T) {
	loader := NewLoader(nil)
	result := loader.LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.False(t, result.Exists)
	assert.Empty(t, result.Items())
}

func TestRecordsAndFirst(t *testing.T) {
	items := []any{"loose string", map[string]any{"a": 1}, int64(3)}
	assert.Len(t, Records(items), 1)

	_, ok := First(items)
	assert.False(t, ok)

	rec, ok := First(items[1:])
	require.True(t, ok)
	assert.Equal(t, 1, rec["a"])
}
