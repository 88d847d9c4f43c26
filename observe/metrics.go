package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricExecTotal    = "query.exec.total"
	MetricExecErrors   = "query.exec.errors"
	MetricExecDuration = "query.exec.duration_ms"
	MetricCacheHits    = "query.cache.hits"
	MetricCacheMisses  = "query.cache.misses"
)

// Metrics records execution and cache metrics for queries and mutations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one execution with its duration and outcome.
	RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordCacheLookup records whether a cache lookup hit.
	RecordCacheLookup(ctx context.Context, meta OpMeta, hit bool)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	hitCount     metric.Int64Counter
	missCount    metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates Metrics backed by meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	m := &metricsImpl{}
	var err error

	if m.totalCount, err = meter.Int64Counter(MetricExecTotal,
		metric.WithDescription("Total number of query and mutation executions"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	if m.errorCount, err = meter.Int64Counter(MetricExecErrors,
		metric.WithDescription("Total number of failed executions"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.hitCount, err = meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Query executions served from cache"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}

	if m.missCount, err = meter.Int64Counter(MetricCacheMisses,
		metric.WithDescription("Query executions that missed the cache"),
		metric.WithUnit("{miss}"),
	); err != nil {
		return nil, err
	}

	if m.durationHist, err = meter.Float64Histogram(MetricExecDuration,
		metric.WithDescription("Execution duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func opAttributes(meta OpMeta) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.kind", string(meta.Kind)),
		attribute.String("op.name", meta.Name),
	)
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := opAttributes(meta)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta OpMeta, hit bool) {
	opt := opAttributes(meta)
	if hit {
		m.hitCount.Add(ctx, 1, opt)
		return
	}
	m.missCount.Add(ctx, 1, opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordExecution(context.Context, OpMeta, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, OpMeta, bool)               {}
