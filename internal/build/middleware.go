package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
)

// Step is one named unit of build work.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Middleware wraps a Step with extra behavior.
type Middleware func(Step) Step

// Chain applies middlewares to step. The first middleware is the outermost.
func Chain(step Step, middlewares ...Middleware) Step {
	for i := len(middlewares) - 1; i >= 0; i-- {
		step = middlewares[i](step)
	}
	return step
}

// WithRecover turns a panic inside the step into a classified error.
func WithRecover() Middleware {
	return func(next Step) Step {
		return Step{Name: next.Name, Run: func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = ferrors.InternalError(fmt.Sprintf("step %s panicked: %v", next.Name, r)).
						WithCause(ErrStepPanic).
						WithContext("step", next.Name).
						Build()
				}
			}()
			return next.Run(ctx)
		}}
	}
}

// WithTiming records the step duration on rec and reports it to onDone,
// which may be nil.
func WithTiming(rec metrics.Recorder, onDone func(name string, d time.Duration, err error)) Middleware {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return func(next Step) Step {
		return Step{Name: next.Name, Run: func(ctx context.Context) error {
			start := time.Now()
			err := next.Run(ctx)
			d := time.Since(start)
			rec.ObserveStepDuration(next.Name, d)
			if onDone != nil {
				onDone(next.Name, d, err)
			}
			return err
		}}
	}
}

// WithLogging logs the start and the result of the step.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Step) Step {
		return Step{Name: next.Name, Run: func(ctx context.Context) error {
			start := time.Now()
			logger.DebugContext(ctx, "Step started", logfields.Step(next.Name))

			err := next.Run(ctx)
			ms := float64(time.Since(start).Microseconds()) / 1000
			if err != nil {
				attrs := []any{logfields.Step(next.Name), logfields.DurationMS(ms), logfields.Error(err)}
				if ce, ok := ferrors.AsClassified(err); ok {
					for _, a := range ce.LogAttrs() {
						attrs = append(attrs, a)
					}
				}
				logger.ErrorContext(ctx, "Step failed", attrs...)
				return err
			}
			logger.InfoContext(ctx, "Step completed", logfields.Step(next.Name), logfields.DurationMS(ms))
			return nil
		}}
	}
}
