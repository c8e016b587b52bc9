package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
)

// Operation labels
const (
	opQuery   = "query"
	opColumns = "columns"
)

// Instrumented records request counts, rows and latency for an executor
type Instrumented struct {
	inner    Executor
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Histogram
	now      func() time.Time
}

var _ Executor = (*Instrumented)(nil)

// NewInstrumented registers the executor collectors on reg
func NewInstrumented(inner Executor, reg prometheus.Registerer) *Instrumented {
	i := &Instrumented{
		inner: inner,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalens",
			Subsystem: "analytics",
			Name:      "requests_total",
			Help:      "Analytics executor calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datalens",
			Subsystem: "analytics",
			Name:      "request_duration_seconds",
			Help:      "Analytics executor latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datalens",
			Subsystem: "analytics",
			Name:      "result_rows",
			Help:      "Rows returned per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		now: time.Now,
	}
	if reg != nil {
		reg.MustRegister(i.requests, i.duration, i.rows)
	}
	return i
}

// Query times and counts the inner query
func (i *Instrumented) Query(ctx context.Context, sql string) (rowset.Set, error) {
	start := i.now()
	set, err := i.inner.Query(ctx, sql)
	i.observe(opQuery, start, err)
	if err == nil {
		i.rows.Observe(float64(set.Len()))
	}
	return set, err
}

// Columns times and counts the inner listing
func (i *Instrumented) Columns(ctx context.Context, dataset string) ([]querygen.Column, error) {
	start := i.now()
	cols, err := i.inner.Columns(ctx, dataset)
	i.observe(opColumns, start, err)
	return cols, err
}

// Ping forwards to the inner executor when it can report readiness
func (i *Instrumented) Ping(ctx context.Context) error {
	if p, ok := i.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	i.duration.WithLabelValues(op).Observe(i.now().Sub(start).Seconds())
	i.requests.WithLabelValues(op, outcome(err)).Inc()
}

// outcome buckets an error into a low cardinality label
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeUnauthorized, perr.ErrorCodeForbidden:
		return "denied"
	case perr.ErrorCodeTooManyRequests:
		return "throttled"
	case perr.ErrorCodeUnavailable:
		return "unavailable"
	}
	return "error"
}
