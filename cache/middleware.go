package cache

import (
	"context"
	"fmt"
)

// Loader produces a fresh result on a cache miss.
type Loader[R any] func(ctx context.Context) (R, error)

// Outcome reports how Middleware.Execute produced its result.
type Outcome int

const (
	// OutcomeBypass means caching was disabled or no key was available.
	OutcomeBypass Outcome = iota
	// OutcomeHit means the result came from the store.
	OutcomeHit
	// OutcomeMiss means the loader ran and its result was written through.
	OutcomeMiss
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeBypass:
		return "bypass"
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// Middleware wraps result loading with read-through, write-through caching.
type Middleware[R any] struct {
	store        Store[R]
	policy       Policy
	onStoreError StoreErrorFunc
}

// StoreErrorFunc receives write-through failures.
type StoreErrorFunc func(ctx context.Context, key string, err error)

// NewMiddleware creates a new cache middleware. A nil store disables caching.
// onStoreError, if non-nil, is called when a write-through fails.
func NewMiddleware[R any](store Store[R], policy Policy, onStoreError StoreErrorFunc) *Middleware[R] {
	return &Middleware[R]{
		store:        store,
		policy:       policy,
		onStoreError: onStoreError,
	}
}

// Enabled reports whether lookups and write-through are active.
func (m *Middleware[R]) Enabled() bool {
	return m.store != nil && m.policy.ShouldCache()
}

// Execute runs load with caching.
// On cache hit, returns the cached result without calling load.
// On cache miss, calls load, hands the result to commit, then stores it.
// Errors are NOT cached. An empty key bypasses the cache. Store write
// failures, panics included, go to onStoreError.
func (m *Middleware[R]) Execute(
	ctx context.Context,
	key string,
	load Loader[R],
	commit func(R),
) (R, Outcome, error) {
	if !m.Enabled() || key == "" {
		result, err := load(ctx)
		if err == nil && commit != nil {
			commit(result)
		}
		return result, OutcomeBypass, err
	}

	if cached, ok := m.store.Get(ctx, key); ok {
		if commit != nil {
			commit(cached)
		}
		return cached, OutcomeHit, nil
	}

	result, err := load(ctx)
	if err != nil {
		return result, OutcomeMiss, err
	}

	if commit != nil {
		commit(result)
	}

	if err := m.write(ctx, key, result); err != nil && m.onStoreError != nil {
		m.onStoreError(ctx, key, err)
	}

	return result, OutcomeMiss, nil
}

// write stores result, reporting a panicking store as an error. The result
// is already committed, so a write cannot change the outcome.
func (m *Middleware[R]) write(ctx context.Context, key string, result R) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache: store panicked: %v", r)
		}
	}()
	return m.store.Set(ctx, key, result)
}
