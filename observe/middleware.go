package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunFunc is one execution wrapped by Instruments.Run.
type RunFunc func(ctx context.Context) error

// Instruments bundles the tracer, metrics and logger used to observe
// executions.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: Run propagates the span and execution ID through ctx.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Instruments struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstruments creates Instruments from its parts. Nil parts are replaced
// by no-ops.
func NewInstruments(tracer Tracer, metrics Metrics, logger Logger) *Instruments {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Instruments{tracer: tracer, metrics: metrics, logger: logger}
}

// InstrumentsFromObserver creates Instruments from an Observer.
func InstrumentsFromObserver(obs Observer) (*Instruments, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstruments(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// NopInstruments returns Instruments that record nothing.
func NopInstruments() *Instruments {
	return NewInstruments(nil, nil, nil)
}

// Logger returns the logger scoped to meta.
func (in *Instruments) Logger(meta OpMeta) Logger {
	return in.logger.WithOperation(meta)
}

// Run executes fn inside a span, records its metrics and logs its outcome.
// A fresh execution ID is attached to ctx unless one is already present.
func (in *Instruments) Run(ctx context.Context, meta OpMeta, fn RunFunc) error {
	if ExecutionID(ctx) == "" {
		ctx = WithExecutionID(ctx, NewExecutionID())
	}

	ctx, span := in.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	in.tracer.EndSpan(span, err)
	in.metrics.RecordExecution(ctx, meta, duration, err)

	fields := []Field{{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000}}
	logger := in.logger.WithOperation(meta)
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, string(meta.Kind)+" execution failed", fields...)
	} else {
		logger.Info(ctx, string(meta.Kind)+" execution completed", fields...)
	}

	return err
}

// RecordCacheLookup records a cache hit or miss for meta and annotates the
// current span.
func (in *Instruments) RecordCacheLookup(ctx context.Context, meta OpMeta, hit bool) {
	in.metrics.RecordCacheLookup(ctx, meta, hit)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("query.cache.hit", hit))
	if hit {
		in.logger.WithOperation(meta).Debug(ctx, "query cache hit")
	}
}
