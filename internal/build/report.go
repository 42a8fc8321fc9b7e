package build

import (
	"fmt"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/pagebuilder/internal/brand"
	"git.home.luguber.info/inful/pagebuilder/internal/manifest"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
)

// PageStatus is the result of one page step.
type PageStatus string

const (
	StatusGenerated   PageStatus = "generated"
	StatusPlaceholder PageStatus = "placeholder"
	StatusFailed      PageStatus = "failed"
)

// PageResult records what happened to one page.
type PageResult struct {
	Page        pages.Page
	Title       string
	Status      PageStatus
	Items       int
	Fingerprint string
	Duration    time.Duration
	Err         error
}

// Succeeded reports whether the page file was written.
func (p PageResult) Succeeded() bool {
	return p.Status == StatusGenerated || p.Status == StatusPlaceholder
}

// Report summarizes one build.
type Report struct {
	ID          string
	Start       time.Time
	End         time.Time
	ContentRoot string
	OutputDir   string
	Repository  string
	Brand       brand.Meta
	Marker      string
	Removed     []string
	Pages       []PageResult
	Outcome     metrics.BuildOutcome
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Count returns the number of pages with the given status.
func (r *Report) Count(status PageStatus) int {
	n := 0
	for _, p := range r.Pages {
		if p.Status == status {
			n++
		}
	}
	return n
}

// Succeeded returns the number of pages written.
func (r *Report) Succeeded() int {
	return r.Count(StatusGenerated) + r.Count(StatusPlaceholder)
}

// Written returns the output file names of the pages written, in build order.
func (r *Report) Written() []string {
	var out []string
	for _, p := range r.Pages {
		if p.Succeeded() {
			out = append(out, p.Page.File)
		}
	}
	return out
}

// Summary is a one-line human readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d pages written (%d generated, %d placeholder, %d failed) in %s",
		r.Succeeded(), len(r.Pages),
		r.Count(StatusGenerated), r.Count(StatusPlaceholder), r.Count(StatusFailed),
		r.Duration().Round(time.Millisecond))
}

// fingerprint identifies a page's content independent of the render time.
func fingerprint(frag pages.Fragment) string {
	return mdfp.CalculateFingerprintFromParts("title: "+frag.Title, string(frag.HTML)+string(frag.StructuredData))
}

// Manifest converts the report into a build manifest. inputs is filled by
// the caller.
func (r *Report) Manifest(version string, inputs manifest.Inputs) *manifest.BuildManifest {
	out := make([]manifest.PageOutput, 0, len(r.Pages))
	for _, p := range r.Pages {
		po := manifest.PageOutput{
			File:        p.Page.File,
			Title:       p.Title,
			Status:      string(p.Status),
			Items:       p.Items,
			Fingerprint: p.Fingerprint,
			DurationMS:  p.Duration.Milliseconds(),
		}
		if p.Err != nil {
			po.Error = p.Err.Error()
		}
		out = append(out, po)
	}
	return &manifest.BuildManifest{
		ID:        r.ID,
		Version:   version,
		Timestamp: r.Start.UTC(),
		Inputs:    inputs,
		Outputs:   manifest.Outputs{Dir: r.OutputDir, Marker: r.Marker, Pages: out},
		Status:    string(r.Outcome),
		Duration:  r.Duration().Milliseconds(),
	}
}
