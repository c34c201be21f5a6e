// Package metrics defines the job lifecycle metric vocabulary.
package metrics

import (
	"time"

	oerrors "github.com/masumi-network/kodosumi-bridge/internal/observability/errors"
	"github.com/masumi-network/kodosumi-bridge/internal/observability/statsd"
)

// Result labels for lifecycle metrics.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// JobMetric captures one lifecycle event for a job.
type JobMetric struct {
	// Status is the state the job entered, e.g. "polling" or "completed".
	Status string
	// Result is ResultSuccess or ResultError.
	Result string
	// Duration is how long the phase took; zero durations are not emitted.
	Duration time.Duration
	// Err, when set, is classified into an error_class tag.
	Err error
}

// EmitJobTransition records a job state transition and, when measured, the
// phase duration. Nil sinks are tolerated so callers can leave metrics unwired.
func EmitJobTransition(sink statsd.Sink, m JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"status": m.Status,
		"result": m.Result,
	}
	if m.Err != nil {
		tags["error_class"] = oerrors.Classify(m.Err)
	}

	sink.Count("jobs.transition", 1, tags)
	if m.Duration > 0 {
		sink.Timing("jobs.phase_duration", m.Duration, tags)
	}
}
