package notify

import (
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
)

// Event is the JSON payload published after a build.
type Event struct {
	ID          string      `json:"id"`
	Outcome     string      `json:"outcome"`
	Summary     string      `json:"summary"`
	Repository  string      `json:"repository,omitempty"`
	Brand       string      `json:"brand,omitempty"`
	ContentRoot string      `json:"content_root"`
	OutputDir   string      `json:"output_dir"`
	Start       time.Time   `json:"start"`
	DurationMS  int64       `json:"duration_ms"`
	Pages       []PageEvent `json:"pages"`
}

// PageEvent describes one page of the build.
type PageEvent struct {
	File        string `json:"file"`
	Status      string `json:"status"`
	Items       int    `json:"items"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

// EventFromReport converts a build report into an Event.
func EventFromReport(r *build.Report) Event {
	ev := Event{
		ID:          r.ID,
		Outcome:     string(r.Outcome),
		Summary:     r.Summary(),
		Repository:  r.Repository,
		Brand:       r.Brand.Name,
		ContentRoot: r.ContentRoot,
		OutputDir:   r.OutputDir,
		Start:       r.Start,
		DurationMS:  r.Duration().Milliseconds(),
		Pages:       make([]PageEvent, 0, len(r.Pages)),
	}
	for _, p := range r.Pages {
		pe := PageEvent{
			File:        p.Page.File,
			Status:      string(p.Status),
			Items:       p.Items,
			Fingerprint: p.Fingerprint,
		}
		if p.Err != nil {
			pe.Error = p.Err.Error()
		}
		ev.Pages = append(ev.Pages, pe)
	}
	return ev
}
