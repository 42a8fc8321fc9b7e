package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/brand"
	"git.home.luguber.info/inful/pagebuilder/internal/build"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
)

type recordingPublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.subject = subject
	p.data = data
	return p.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport() *build.Report {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &build.Report{
		ID:          "build-1",
		Start:       start,
		End:         start.Add(1500 * time.Millisecond),
		ContentRoot: "schemas",
		OutputDir:   "site",
		Repository:  "acme/site",
		Brand:       brand.Meta{Name: "Acme"},
		Outcome:     metrics.OutcomeSuccess,
		Pages: []build.PageResult{
			{Page: pages.Index, Status: build.StatusGenerated, Items: 3, Fingerprint: "abc"},
			{Page: pages.Help, Status: build.StatusFailed, Err: errors.New("boom")},
		},
	}
}

func TestEventFromReport(t *testing.T) {
	ev := EventFromReport(sampleReport())

	assert.Equal(t, "build-1", ev.ID)
	assert.Equal(t, "success", ev.Outcome)
	assert.Equal(t, "Acme", ev.Brand)
	assert.Equal(t, int64(1500), ev.DurationMS)
	require.Len(t, ev.Pages, 2)
	assert.Equal(t, PageEvent{File: "index.html", Status: "generated", Items: 3, Fingerprint: "abc"}, ev.Pages[0])
	assert.Equal(t, "boom", ev.Pages[1].Error)
	assert.Contains(t, ev.Summary, "1/2 pages written")
}

func TestNotifyPublishesJSON(t *testing.T) {
	pub := &recordingPublisher{}
	n := New(pub, "", quietLogger())

	require.NoError(t, n.Notify(context.Background(), sampleReport()))
	assert.Equal(t, DefaultSubject, pub.subject)

	var ev Event
	require.NoError(t, json.Unmarshal(pub.data, &ev))
	assert.Equal(t, "build-1", ev.ID)
	assert.Equal(t, "acme/site", ev.Repository)
}

func TestNotifyWrapsPublishFailure(t *testing.T) {
	cause := errors.New("no responders")
	n := New(&recordingPublisher{err: cause}, "site.builds", quietLogger())

	err := n.Notify(context.Background(), sampleReport())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
	assert.Equal(t, "site.builds", n.Subject())
}

func TestConnectFailure(t *testing.T) {
	_, err := Connect(Config{URL: "nats://127.0.0.1:1"}, quietLogger())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}
