package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Outcomes of a remote lookup, used as the outcome label.
const (
	OutcomeOK          = "ok"
	OutcomeMissing     = "missing"
	OutcomeUnavailable = "unavailable"
	OutcomeContract    = "contract_violation"
)

// RemoteLookupMetrics counts and times the lookups this service makes against
// other services. A nil *RemoteLookupMetrics records nothing.
type RemoteLookupMetrics struct {
	lookups  *Counter
	duration *Histogram
}

// NewRemoteLookupMetrics registers the remote lookup instruments on meter.
func NewRemoteLookupMetrics(meter metric.Meter) (*RemoteLookupMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	lookups, err := NewCounter(meter,
		"remote_lookups_total",
		"Total number of remote record lookups",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "remote_lookup_duration_seconds",
		Description: "Duration of remote record lookups",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &RemoteLookupMetrics{lookups: lookups, duration: duration}, nil
}

// Record records one lookup against service
func (m *RemoteLookupMetrics) Record(ctx context.Context, service, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.Inc(ctx, AttrRemoteService.String(service), AttrRemoteOutcome.String(outcome))
	m.duration.RecordDuration(ctx, d, AttrRemoteService.String(service))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewRemoteLookupMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
