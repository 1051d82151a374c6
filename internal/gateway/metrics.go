package gateway

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type instrumented struct {
	next     Gateway
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Instrument wraps g so every call is counted and timed on reg, labelled by
// table, operation and outcome.
func Instrument(g Gateway, reg prometheus.Registerer) Gateway {
	factory := promauto.With(reg)

	return &instrumented{
		next: g,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colearnhub",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Number of data gateway calls by table, operation and outcome.",
		}, []string{"table", "op", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "colearnhub",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Latency of data gateway calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}
}

func (i *instrumented) observe(table Table, op Op, start time.Time, err error) {
	i.calls.WithLabelValues(string(table), string(op), KindLabel(err)).Inc()
	i.duration.WithLabelValues(string(table), string(op)).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Select(ctx context.Context, table Table, dest any, q Query) error {
	start := time.Now()
	err := i.next.Select(ctx, table, dest, q)
	i.observe(table, OpSelect, start, err)

	return err
}

func (i *instrumented) Insert(ctx context.Context, table Table, rows any) error {
	start := time.Now()
	err := i.next.Insert(ctx, table, rows)
	i.observe(table, OpInsert, start, err)

	return err
}

func (i *instrumented) Update(ctx context.Context, table Table, patch Patch, filters ...Filter) (int64, error) {
	start := time.Now()
	n, err := i.next.Update(ctx, table, patch, filters...)
	i.observe(table, OpUpdate, start, err)

	return n, err
}

func (i *instrumented) Delete(ctx context.Context, table Table, filters ...Filter) (int64, error) {
	start := time.Now()
	n, err := i.next.Delete(ctx, table, filters...)
	i.observe(table, OpDelete, start, err)

	return n, err
}
