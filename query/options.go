package query

import (
	"github.com/jonwraymond/queryops/cache"
	"github.com/jonwraymond/queryops/observe"
)

// queryOptions collects per-definition settings. keyFunc and store hold
// typed values checked against the query's type parameters at Create.
type queryOptions struct {
	name    string
	policy  *cache.Policy
	caching *bool
	keyFunc any
	store   any
}

// Option configures a Query or Mutation at creation. Cache options are
// ignored by mutations.
type Option func(*queryOptions)

// WithName sets the operation name used in cache keys, spans, metrics and
// logs. Default: "<result type>:<filter type>" (queries) or "<input type>"
// (mutations).
func WithName(name string) Option {
	return func(o *queryOptions) { o.name = name }
}

// WithKeyFunc replaces cache key derivation for a query with filter type F.
// The returned key is used as is. A key function error makes that execution
// run uncached.
func WithKeyFunc[F any](fn func(filter F) (string, error)) Option {
	return func(o *queryOptions) { o.keyFunc = fn }
}

// WithCachePolicy sets the cache policy, overriding the factory default.
func WithCachePolicy(p cache.Policy) Option {
	return func(o *queryOptions) { o.policy = &p }
}

// WithCaching turns result caching on or off, keeping the rest of the policy.
func WithCaching(enabled bool) Option {
	return func(o *queryOptions) { o.caching = &enabled }
}

// WithStore binds a typed store, bypassing registry resolution.
func WithStore[R any](s cache.Store[R]) Option {
	return func(o *queryOptions) { o.store = s }
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithDefaultPolicy sets the cache policy for queries created without
// WithCachePolicy. Default: cache.DefaultPolicy().
func WithDefaultPolicy(p cache.Policy) FactoryOption {
	return func(f *Factory) { f.policy = p }
}

// WithKeyer sets the keyer used for default cache keys.
// Default: cache.NewDefaultKeyer().
func WithKeyer(k cache.Keyer) FactoryOption {
	return func(f *Factory) {
		if k != nil {
			f.keyer = k
		}
	}
}

// WithInstruments sets the instruments observing every execution.
func WithInstruments(in *observe.Instruments) FactoryOption {
	return func(f *Factory) { f.instruments = in }
}

// WithObserver derives the factory's instruments from obs. It is ignored when
// WithInstruments is also given.
func WithObserver(obs observe.Observer) FactoryOption {
	return func(f *Factory) { f.observer = obs }
}

func buildQueryOptions(opts []Option) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
