package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *BuildManifest {
	return &BuildManifest{
		ID:        "build-123",
		Version:   "v1.0.0",
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Inputs: Inputs{
			ContentRoot: "schemas",
			Repository:  "acme/site",
			Brand:       "Acme",
			BrandSource: "organization",
			AliasFields: 15,
			Dirs: []DirInput{
				{Name: "services", Exists: true, Files: []FileInput{{Path: "services/a.json", Fingerprint: "fp-a"}}},
				{Name: "faqs", Exists: false},
			},
		},
		Outputs: Outputs{
			Dir:    "site",
			Marker: ".nojekyll",
			Pages: []PageOutput{
				{File: "index.html", Title: "Welcome to Acme", Status: "generated", Items: 3, Fingerprint: "fp-index", DurationMS: 4},
				{File: "faqs.html", Title: "Frequently Asked Questions", Status: "placeholder", Fingerprint: "fp-faqs", DurationMS: 1},
			},
		},
		Status:   "success",
		Duration: 12,
	}
}

func TestManifestRoundTripThroughFile(t *testing.T) {
	m := sampleManifest()
	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	require.NoError(t, m.WriteFile(path))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestHashIgnoresTimingAndIdentity(t *testing.T) {
	a := sampleManifest()
	b := sampleManifest()
	b.ID = "build-456"
	b.Timestamp = b.Timestamp.Add(time.Hour)
	b.Duration = 99
	b.Outputs.Pages[0].DurationMS = 50

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	b.Outputs.Pages[1].Fingerprint = "changed"
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestFingerprintFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(`{"name": "x"}`), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(`{"name": "x"}`), 0o600))

	fa, err := FingerprintFile(a)
	require.NoError(t, err)
	fb, err := FingerprintFile(b)
	require.NoError(t, err)
	assert.NotEmpty(t, fa)
	assert.Equal(t, fa, fb)

	_, err = FingerprintFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte("{"))
	require.Error(t, err)
}
