package metrics

import "time"

// ResultLabel enumerates page step results.
type ResultLabel string

const (
	ResultGenerated   ResultLabel = "generated"
	ResultPlaceholder ResultLabel = "placeholder"
	ResultFailed      ResultLabel = "failed"
)

// BuildOutcome enumerates whole-build results.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	// OutcomeWarning means the build finished but produced no page.
	OutcomeWarning BuildOutcome = "warning"
	OutcomeFailed  BuildOutcome = "failed"
)

// Recorder defines observability hooks for builds and page steps.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	ObservePageItems(page string, items int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) ObservePageItems(string, int)              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)              {}
