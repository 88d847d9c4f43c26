package observe

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// OpKind distinguishes queries from mutations in telemetry.
type OpKind string

const (
	KindQuery    OpKind = "query"
	KindMutation OpKind = "mutation"
)

// OpMeta describes a query or mutation definition for telemetry purposes.
type OpMeta struct {
	Kind       OpKind // query or mutation (required)
	Name       string // Operation name (required)
	ResultType string // Go type of the query result (queries only)
	FilterType string // Go type of the filter or mutation input
}

// Validate reports whether the metadata can be used for telemetry.
func (m OpMeta) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMissingOperationName
	}
	switch m.Kind {
	case KindQuery, KindMutation:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOpKind, m.Kind)
	}
}

// SpanName returns the deterministic span name for this operation.
// Format: <kind>.exec.<name>
func (m OpMeta) SpanName() string {
	return string(m.Kind) + ".exec." + m.Name
}

// OpID returns the qualified operation identifier, <kind>.<name>.
func (m OpMeta) OpID() string {
	return string(m.Kind) + "." + m.Name
}

type executionIDKey struct{}

// WithExecutionID returns a context carrying id as the current execution ID.
func WithExecutionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, executionIDKey{}, id)
}

// ExecutionID returns the execution ID carried by ctx, or "".
func ExecutionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(executionIDKey{}).(string)
	return id
}

// NewExecutionID returns a fresh random execution ID.
func NewExecutionID() string {
	return uuid.NewString()
}
