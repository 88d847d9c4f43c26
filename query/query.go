package query

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/jonwraymond/queryops/cache"
	"github.com/jonwraymond/queryops/observe"
)

// Func produces a result for filter. It fails by returning an error, by
// panicking, or by calling fc.SetErrorMessage.
type Func[R, F any, C Context] func(ctx context.Context, filter F, fc C) (R, error)

// Query runs a Func as a state machine with cached results.
//
// Contract:
//   - Concurrency: safe for concurrent use. Concurrent Execute calls on one
//     Query are not deduplicated; the last one to finish determines the state.
//   - Errors: execution failures are captured in the state and returned from
//     Execute; Data keeps the last successful result.
//   - Context: ctx is passed to the function and the cache store unchanged.
type Query[R, F any, C Context] struct {
	state[R]

	fn      Func[R, F, C]
	newCtx  func() C
	meta    observe.OpMeta
	keyFunc func(F) (string, error)
	cache   *cache.Middleware[R]
	instr   *observe.Instruments
}

// Data returns the result of the last successful execution.
func (q *Query[R, F, C]) Data() R {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.data
}

// Snapshot returns status, error and data read atomically.
func (q *Query[R, F, C]) Snapshot() Snapshot[R] {
	return q.snapshot()
}

// Name returns the operation name.
func (q *Query[R, F, C]) Name() string {
	return q.meta.Name
}

// CacheKey returns the cache key filter maps to.
func (q *Query[R, F, C]) CacheKey(filter F) (string, error) {
	if q.keyFunc == nil {
		return "", ErrFuncNotBound
	}
	key, err := q.keyFunc(filter)
	if err != nil {
		return "", err
	}
	if err := cache.ValidateKey(key); err != nil {
		return "", fmt.Errorf("query: key %q: %w", key, err)
	}
	return key, nil
}

// Execute runs one execution cycle for filter.
//
// The status moves to Pending, then to Success or Error. With caching
// enabled, a stored result for the filter's key is used without calling the
// function; otherwise the function runs and a successful result is written
// to the cache. Execute returns ErrFuncNotBound without touching the state
// when the query has no function.
func (q *Query[R, F, C]) Execute(ctx context.Context, filter F) (R, error) {
	var zero R
	if q == nil || q.fn == nil {
		return zero, ErrFuncNotBound
	}

	q.begin()

	var result R
	err := q.instr.Run(ctx, q.meta, func(ctx context.Context) (err error) {
		// Covers key derivation, the store and the codec; invoke covers the
		// function itself.
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()

		var key string
		if q.cache.Enabled() {
			key = q.lookupKey(ctx, filter)
		}

		var outcome cache.Outcome
		result, outcome, err = q.cache.Execute(ctx, key, func(ctx context.Context) (R, error) {
			return q.invoke(ctx, filter)
		}, q.succeed)

		if outcome != cache.OutcomeBypass {
			q.instr.RecordCacheLookup(ctx, q.meta, outcome == cache.OutcomeHit)
		}
		return err
	})
	if err != nil {
		q.fail(err)
		return zero, err
	}
	return result, nil
}

// lookupKey derives the cache key, or "" to run uncached.
func (q *Query[R, F, C]) lookupKey(ctx context.Context, filter F) string {
	key, err := q.safeCacheKey(filter)
	if err != nil {
		q.instr.Logger(q.meta).Warn(ctx, "cache key derivation failed, executing uncached",
			observe.Field{Key: "error", Value: err})
		return ""
	}
	return key
}

// safeCacheKey is CacheKey with a panicking key function reported as an error.
func (q *Query[R, F, C]) safeCacheKey(filter F) (key string, err error) {
	defer func() {
		if r := recover(); r != nil {
			key, err = "", fmt.Errorf("query: key function panicked: %v", r)
		}
	}()
	return q.CacheKey(filter)
}

func (q *Query[R, F, C]) invoke(ctx context.Context, filter F) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			result, err = zero, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	fc := q.newCtx()
	result, err = q.fn(ctx, filter, fc)
	if err != nil {
		var zero R
		return zero, err
	}
	if msg := fc.ErrorMessage(); msg != "" {
		var zero R
		return zero, &MessageError{Message: msg}
	}
	return result, nil
}

func (q *Query[R, F, C]) onStoreError(ctx context.Context, key string, err error) {
	q.instr.Logger(q.meta).Warn(ctx, "query cache write failed",
		observe.Field{Key: "cache_key", Value: key},
		observe.Field{Key: "error", Value: err})
}

func (q *Query[R, F, C]) onDecodeError(ctx context.Context, key string, err error) {
	q.instr.Logger(q.meta).Warn(ctx, "query cache entry undecodable, executing",
		observe.Field{Key: "cache_key", Value: key},
		observe.Field{Key: "error", Value: err})
}
