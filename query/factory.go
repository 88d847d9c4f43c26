package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/queryops/cache"
	"github.com/jonwraymond/queryops/observe"
	"github.com/jonwraymond/queryops/registry"
)

// Factory creates queries and mutations bound to a registry.
//
// Contract:
//   - Concurrency: safe for concurrent use once constructed.
//   - Ownership: the registry is borrowed; closing it is the caller's job.
type Factory struct {
	reg         *registry.Registry
	policy      cache.Policy
	keyer       cache.Keyer
	instruments *observe.Instruments
	observer    observe.Observer
}

// NewFactory creates a Factory over reg. A nil reg yields a Factory whose
// Create calls fail with ErrNotInitialized.
func NewFactory(reg *registry.Registry, opts ...FactoryOption) *Factory {
	f := &Factory{
		reg:    reg,
		policy: cache.DefaultPolicy(),
		keyer:  cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Registry returns the registry the factory resolves from.
func (f *Factory) Registry() *registry.Registry {
	if f == nil {
		return nil
	}
	return f.reg
}

func (f *Factory) ready() error {
	if f == nil || f.reg == nil {
		return ErrNotInitialized
	}
	return nil
}

// resolveInstruments picks explicit instruments, then an explicit observer,
// then an observer registered in the registry, then no-ops.
func (f *Factory) resolveInstruments() (*observe.Instruments, error) {
	if f.instruments != nil {
		return f.instruments, nil
	}
	obs := f.observer
	if obs == nil {
		obs, _ = registry.Get[observe.Observer](f.reg)
	}
	if obs == nil {
		return observe.NopInstruments(), nil
	}
	return observe.InstrumentsFromObserver(obs)
}

// Create builds a Query whose function receives a *FuncContext.
func Create[R, F any](f *Factory, fn Func[R, F, *FuncContext], opts ...Option) (*Query[R, F, *FuncContext], error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	reg := f.reg
	return newQuery(f, fn, func() *FuncContext { return NewFuncContext(reg) }, opts)
}

// CreateWithContext builds a Query whose function receives a custom Context.
// A ContextSource[C] must be registered in the factory's registry.
func CreateWithContext[R, F any, C Context](f *Factory, fn Func[R, F, C], opts ...Option) (*Query[R, F, C], error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	newCtx, err := contextSource[C](f.reg)
	if err != nil {
		return nil, err
	}
	return newQuery(f, fn, newCtx, opts)
}

// CreateMutation builds a Mutation whose function receives a *FuncContext.
func CreateMutation[I any](f *Factory, fn MutationFunc[I, *FuncContext], opts ...Option) (*Mutation[I, *FuncContext], error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	reg := f.reg
	return newMutation(f, fn, func() *FuncContext { return NewFuncContext(reg) }, opts)
}

// CreateMutationWithContext builds a Mutation whose function receives a custom
// Context resolved through a registered ContextSource[C].
func CreateMutationWithContext[I any, C Context](f *Factory, fn MutationFunc[I, C], opts ...Option) (*Mutation[I, C], error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	newCtx, err := contextSource[C](f.reg)
	if err != nil {
		return nil, err
	}
	return newMutation(f, fn, newCtx, opts)
}

func contextSource[C Context](reg *registry.Registry) (func() C, error) {
	src, err := registry.GetRequired[ContextSource[C]](reg)
	if err != nil {
		return nil, fmt.Errorf("query: resolve context source: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("query: context source for %s is nil: %w", registry.TypeName[C](), registry.ErrNotFound)
	}
	return func() C { return src(reg) }, nil
}

func newQuery[R, F any, C Context](f *Factory, fn Func[R, F, C], newCtx func() C, opts []Option) (*Query[R, F, C], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	o := buildQueryOptions(opts)

	meta := observe.OpMeta{
		Kind:       observe.KindQuery,
		Name:       o.name,
		ResultType: registry.TypeName[R](),
		FilterType: registry.TypeName[F](),
	}
	if meta.Name == "" {
		meta.Name = meta.ResultType + ":" + meta.FilterType
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	policy := f.policy
	if o.policy != nil {
		policy = *o.policy
	}
	if o.caching != nil {
		policy.Enabled = *o.caching
	}

	keyFunc, err := queryKeyFunc[F](f.keyer, meta.Name, o.keyFunc)
	if err != nil {
		return nil, err
	}

	instr, err := f.resolveInstruments()
	if err != nil {
		return nil, fmt.Errorf("query: build instruments: %w", err)
	}

	q := &Query[R, F, C]{
		fn:      fn,
		newCtx:  newCtx,
		meta:    meta,
		keyFunc: keyFunc,
		instr:   instr,
	}

	store, err := resolveStore[R](f.reg, policy, o.store, q.onDecodeError)
	if err != nil {
		return nil, err
	}
	q.cache = cache.NewMiddleware[R](store, policy, q.onStoreError)
	return q, nil
}

func queryKeyFunc[F any](keyer cache.Keyer, scope string, custom any) (func(F) (string, error), error) {
	if custom == nil {
		return func(filter F) (string, error) {
			return keyer.Key(scope, filter)
		}, nil
	}
	fn, ok := custom.(func(F) (string, error))
	if !ok || fn == nil {
		return nil, fmt.Errorf("%w: key function %T does not accept filter type %s",
			ErrInvalidOption, custom, registry.TypeName[F]())
	}
	return fn, nil
}

// resolveStore returns nil when caching is disabled. Otherwise it prefers an
// explicit store, then a registered cache.Store[R], then a registered
// cache.Cache: a cache.ValueCache keeps results as they are, any other
// backend gets a JSON CodecStore.
func resolveStore[R any](reg *registry.Registry, policy cache.Policy, explicit any, onDecode cache.StoreErrorFunc) (cache.Store[R], error) {
	if explicit != nil {
		s, ok := explicit.(cache.Store[R])
		if !ok {
			return nil, fmt.Errorf("%w: store %T does not hold %s", ErrInvalidOption, explicit, registry.TypeName[R]())
		}
		return s, nil
	}
	if !policy.ShouldCache() {
		return nil, nil
	}

	typed, err := registry.GetRequired[cache.Store[R]](reg)
	switch {
	case err == nil && typed != nil:
		return typed, nil
	case err != nil && !errors.Is(err, registry.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	backend, err := registry.GetRequired[cache.Cache](reg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	ttl := policy.EffectiveTTL(0)
	if vc, ok := backend.(cache.ValueCache); ok {
		store, err := cache.NewValueStore[R](vc, ttl)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return store, nil
	}
	store, err := cache.NewStore[R](backend, cache.StoreConfig{TTL: ttl, OnDecodeError: onDecode})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return store, nil
}

func newMutation[I any, C Context](f *Factory, fn MutationFunc[I, C], newCtx func() C, opts []Option) (*Mutation[I, C], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	o := buildQueryOptions(opts)

	meta := observe.OpMeta{
		Kind:       observe.KindMutation,
		Name:       strings.TrimSpace(o.name),
		FilterType: registry.TypeName[I](),
	}
	if o.name == "" {
		meta.Name = meta.FilterType
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	instr, err := f.resolveInstruments()
	if err != nil {
		return nil, fmt.Errorf("query: build instruments: %w", err)
	}

	return &Mutation[I, C]{
		fn:     fn,
		newCtx: newCtx,
		meta:   meta,
		instr:  instr,
	}, nil
}
