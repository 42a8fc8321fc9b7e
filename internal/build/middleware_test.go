package build

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
)

type recordingRecorder struct {
	metrics.NoopRecorder
	durations map[string]time.Duration
}

func (r *recordingRecorder) ObserveStepDuration(step string, d time.Duration) {
	if r.durations == nil {
		r.durations = map[string]time.Duration{}
	}
	r.durations[step] = d
}

func TestChainOrder(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next Step) Step {
			return Step{Name: next.Name, Run: func(ctx context.Context) error {
				trace = append(trace, name+">")
				err := next.Run(ctx)
				trace = append(trace, "<"+name)
				return err
			}}
		}
	}

	step := Chain(Step{Name: "s", Run: func(context.Context) error {
		trace = append(trace, "run")
		return nil
	}}, mark("a"), mark("b"))

	require.NoError(t, step.Run(context.Background()))
	assert.Equal(t, []string{"a>", "b>", "run", "<b", "<a"}, trace)
	assert.Equal(t, "s", step.Name)
}

func TestWithRecover(t *testing.T) {
	step := Chain(Step{Name: "boom", Run: func(context.Context) error {
		panic("kaboom")
	}}, WithRecover())

	err := step.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStepPanic))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
	assert.Equal(t, ferrors.SeverityFatal, ferrors.GetSeverity(err))
	assert.Contains(t, err.Error(), "kaboom")
}

func TestWithTiming(t *testing.T) {
	rec := &recordingRecorder{}
	var (
		gotName string
		gotErr  error
	)
	want := errors.New("failed")
	step := Chain(Step{Name: "timed", Run: func(context.Context) error {
		time.Sleep(time.Millisecond)
		return want
	}}, WithTiming(rec, func(name string, _ time.Duration, err error) {
		gotName, gotErr = name, err
	}))

	err := step.Run(context.Background())
	assert.Equal(t, want, err)
	assert.Equal(t, "timed", gotName)
	assert.Equal(t, want, gotErr)
	assert.Positive(t, rec.durations["timed"])
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := Chain(Step{Name: "good", Run: func(context.Context) error { return nil }}, WithLogging(logger))
	require.NoError(t, ok.Run(context.Background()))

	bad := Chain(Step{Name: "bad", Run: func(context.Context) error {
		return ferrors.RenderError("template broke").Build()
	}}, WithLogging(logger))
	require.Error(t, bad.Run(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `msg="Step started" step=good`)
	assert.Contains(t, out, `msg="Step completed" step=good`)
	assert.Contains(t, out, `msg="Step failed" step=bad`)
	assert.Contains(t, out, "category=render")
	assert.Equal(t, 1, strings.Count(out, "Step failed"))
}
