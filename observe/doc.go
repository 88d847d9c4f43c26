// Package observe provides observability primitives for query and mutation
// execution: a structured JSON logger, OpenTelemetry tracing and metrics, and
// Instruments, which wraps one execution with all three.
//
// It performs no execution itself and no I/O beyond exporter setup. The query
// package drives it.
package observe
