package query

import (
	"context"
	"runtime/debug"

	"github.com/jonwraymond/queryops/observe"
)

// MutationFunc performs a side effect for input. It fails the same ways a
// Func does.
type MutationFunc[I any, C Context] func(ctx context.Context, input I, fc C) error

// Mutation runs a MutationFunc as a state machine. It has no result and no
// cache.
//
// Contract:
//   - Concurrency: safe for concurrent use; the last execution to finish
//     determines the state.
//   - Errors: failures are captured in the state and returned from Execute.
type Mutation[I any, C Context] struct {
	state[struct{}]

	fn     MutationFunc[I, C]
	newCtx func() C
	meta   observe.OpMeta
	instr  *observe.Instruments
}

// Snapshot returns status and error read atomically.
func (m *Mutation[I, C]) Snapshot() MutationSnapshot {
	s := m.snapshot()
	return MutationSnapshot{Status: s.Status, Err: s.Err}
}

// Name returns the operation name.
func (m *Mutation[I, C]) Name() string {
	return m.meta.Name
}

// Execute runs one execution cycle for input. It returns ErrFuncNotBound
// without touching the state when the mutation has no function.
func (m *Mutation[I, C]) Execute(ctx context.Context, input I) error {
	if m == nil || m.fn == nil {
		return ErrFuncNotBound
	}

	m.begin()

	err := m.instr.Run(ctx, m.meta, func(ctx context.Context) error {
		return m.invoke(ctx, input)
	})
	if err != nil {
		m.fail(err)
		return err
	}
	m.succeed(struct{}{})
	return nil
}

func (m *Mutation[I, C]) invoke(ctx context.Context, input I) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	fc := m.newCtx()
	if err := m.fn(ctx, input, fc); err != nil {
		return err
	}
	if msg := fc.ErrorMessage(); msg != "" {
		return &MessageError{Message: msg}
	}
	return nil
}
