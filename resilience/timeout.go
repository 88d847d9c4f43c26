package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds operations when TimeoutConfig.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: DefaultTimeout
	Timeout time.Duration
}

// Timeout bounds how long an operation may run.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

type outcome struct {
	err      error
	panicked bool
	value    any
}

// Execute runs op with a deadline. When the deadline passes first, Execute
// returns ErrTimeout without waiting for op; op sees its ctx canceled.
// A panic in op is re-raised on the caller's goroutine.
func (t *Timeout) Execute(parent context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, t.config.Timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{panicked: true, value: r}
			}
		}()
		done <- outcome{err: op(ctx)}
	}()

	select {
	case out := <-done:
		if out.panicked {
			panic(out.value)
		}
		if out.err != nil && parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return out.err
	case <-ctx.Done():
		if parent.Err() == nil {
			return ErrTimeout
		}
		return parent.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
