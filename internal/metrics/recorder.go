// Package metrics provides observability hooks for document retrieval and
// rendering. Components receive a Recorder through dependency injection; the
// NoopRecorder default means callers never need nil checks.
package metrics

import "time"

// ResultLabel enumerates retrieval result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFallback ResultLabel = "fallback"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for retrieval and transform metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveRetrievalDuration(source string, d time.Duration, success bool)
	IncRetrievalResult(result ResultLabel)
	ObserveTransformDuration(d time.Duration)
	IncRetry()
	IncRetryExhausted()
	SetActiveContainers(n int)
	IncHTTPRequest(method string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRetrievalDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncRetrievalResult(ResultLabel)                       {}
func (NoopRecorder) ObserveTransformDuration(time.Duration)               {}
func (NoopRecorder) IncRetry()                                            {}
func (NoopRecorder) IncRetryExhausted()                                   {}
func (NoopRecorder) SetActiveContainers(int)                              {}
func (NoopRecorder) IncHTTPRequest(string, int)                           {}
