// Package manifest records what a build read and what it wrote.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inful/mdfp"
)

// BuildManifest is a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string    `json:"id"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures everything the build read.
type Inputs struct {
	ContentRoot string     `json:"content_root"`
	Repository  string     `json:"repository,omitempty"`
	Brand       string     `json:"brand"`
	BrandSource string     `json:"brand_source,omitempty"`
	AliasFields int        `json:"alias_fields"`
	Dirs        []DirInput `json:"dirs"`
}

// DirInput is one content subdirectory.
type DirInput struct {
	Name   string      `json:"name"`
	Exists bool        `json:"exists"`
	Files  []FileInput `json:"files,omitempty"`
}

// FileInput is one source file with its content fingerprint.
type FileInput struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
}

// Outputs captures everything the build wrote.
type Outputs struct {
	Dir    string       `json:"dir"`
	Marker string       `json:"marker,omitempty"`
	Pages  []PageOutput `json:"pages"`
}

// PageOutput is one generated (or failed) page.
type PageOutput struct {
	File        string `json:"file"`
	Title       string `json:"title,omitempty"`
	Status      string `json:"status"`
	Items       int    `json:"items"`
	Fingerprint string `json:"fingerprint,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

// FingerprintFile fingerprints the content of a source file.
func FingerprintFile(path string) (string, error) {
	// #nosec G304 -- path comes from a directory listing of the content root
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return mdfp.CalculateFingerprintFromParts("", string(b)), nil
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and page
// fingerprints. Two builds with the same hash rendered the same content.
func (m *BuildManifest) Hash() (string, error) {
	type page struct {
		File        string `json:"file"`
		Status      string `json:"status"`
		Fingerprint string `json:"fingerprint"`
	}
	pages := make([]page, 0, len(m.Outputs.Pages))
	for _, p := range m.Outputs.Pages {
		pages = append(pages, page{File: p.File, Status: p.Status, Fingerprint: p.Fingerprint})
	}

	hashInput := struct {
		Inputs Inputs `json:"inputs"`
		Pages  []page `json:"pages"`
	}{
		Inputs: m.Inputs,
		Pages:  pages,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// WriteFile writes the manifest as JSON, replacing path atomically.
func (m *BuildManifest) WriteFile(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// ReadFile loads a manifest written by WriteFile.
func ReadFile(path string) (*BuildManifest, error) {
	// #nosec G304 -- path is user supplied on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}
