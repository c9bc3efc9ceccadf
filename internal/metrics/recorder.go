package metrics

import "time"

// Outcome labels the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// DocumentResult labels how a single document was produced.
type DocumentResult string

const (
	DocumentRendered DocumentResult = "rendered"
	DocumentCached   DocumentResult = "cached"
	DocumentFailed   DocumentResult = "failed"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	IncDocumentResult(result DocumentResult)
	AddValidationIssues(severity string, n int)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(Outcome)                    {}
func (NoopRecorder) IncDocumentResult(DocumentResult)           {}
func (NoopRecorder) AddValidationIssues(string, int)            {}
func (NoopRecorder) SetWorkers(int)                             {}
