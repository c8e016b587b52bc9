package pg

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

type metricsTracer struct {
	duration *prometheus.HistogramVec
	slow     prometheus.Counter
}

// Metrics returns a tracer that records statement latency by outcome on reg
func Metrics(reg prometheus.Registerer) QueryTracer {
	m := &metricsTracer{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datalens",
			Subsystem: "pg",
			Name:      "query_duration_seconds",
			Help:      "Postgres statement latency by outcome.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"outcome"}),
		slow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datalens",
			Subsystem: "pg",
			Name:      "slow_queries_total",
			Help:      "Statements at or above the slow threshold.",
		}),
	}
	reg.MustRegister(m.duration, m.slow)
	return m
}

func (m *metricsTracer) OnQuery(_ context.Context, ev QueryEvent) {
	outcome := "ok"
	if ev.Err != nil {
		outcome = "error"
	}
	m.duration.WithLabelValues(outcome).Observe(ev.Elapsed.Seconds())
	if ev.Slow {
		m.slow.Inc()
	}
}

type multi []QueryTracer

func (ts multi) OnQuery(ctx context.Context, ev QueryEvent) {
	for _, t := range ts {
		t.OnQuery(ctx, ev)
	}
}

// Tracers fans events out to every non nil tracer; nil when none remain
func Tracers(ts ...QueryTracer) QueryTracer {
	var out multi
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
