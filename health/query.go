package health

import (
	"context"

	"github.com/jonwraymond/queryops/query"
)

// StatusReporter is satisfied by query.Query and query.Mutation.
type StatusReporter interface {
	Status() query.Status
	Err() error
}

// QueryChecker reports the outcome of the last execution of a query or
// mutation. A failed last execution is Degraded: previous data may still be
// served.
type QueryChecker struct {
	name string
	op   StatusReporter
}

// NewQueryChecker creates a checker for op.
func NewQueryChecker(name string, op StatusReporter) *QueryChecker {
	return &QueryChecker{name: name, op: op}
}

// Name returns the name of this checker.
func (c *QueryChecker) Name() string {
	return c.name
}

// Check reads the current status without executing anything.
func (c *QueryChecker) Check(_ context.Context) Result {
	status := c.op.Status()
	details := map[string]any{"status": status.String()}

	if status == query.StatusError {
		r := Degraded("last execution failed").WithDetails(details)
		r.Error = c.op.Err()
		if r.Error != nil {
			details["error"] = r.Error.Error()
		}
		return r
	}
	return Healthy("last execution " + status.String()).WithDetails(details)
}
