package resilience

import (
	"context"
	"sync"

	"github.com/jonwraymond/queryops/query"
)

// WrapQuery returns fn with every call run through e.
func WrapQuery[R, F any, C query.Context](e *Executor, fn query.Func[R, F, C]) query.Func[R, F, C] {
	if e == nil || fn == nil {
		return fn
	}
	return func(ctx context.Context, filter F, fc C) (R, error) {
		var (
			mu     sync.Mutex
			result R
		)
		err := e.Execute(ctx, func(ctx context.Context) error {
			r, err := fn(ctx, filter, fc)
			if err := attemptErr(fc, err); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			// An attempt abandoned by a timeout must not overwrite a later result.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			result = r
			return nil
		})
		if err != nil {
			var zero R
			return zero, err
		}
		mu.Lock()
		defer mu.Unlock()
		return result, nil
	}
}

// WrapMutation returns fn with every call run through e.
func WrapMutation[I any, C query.Context](e *Executor, fn query.MutationFunc[I, C]) query.MutationFunc[I, C] {
	if e == nil || fn == nil {
		return fn
	}
	return func(ctx context.Context, input I, fc C) error {
		return e.Execute(ctx, func(ctx context.Context) error {
			return attemptErr(fc, fn(ctx, input, fc))
		})
	}
}

// attemptErr turns an error message left on fc into the attempt's error and
// clears it, so the next attempt starts clean.
func attemptErr[C query.Context](fc C, err error) error {
	msg := fc.ErrorMessage()
	if msg != "" {
		fc.SetErrorMessage("")
	}
	if err != nil {
		return err
	}
	if msg != "" {
		return &query.MessageError{Message: msg}
	}
	return nil
}
