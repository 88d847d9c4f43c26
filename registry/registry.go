package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/goccy/go-reflect"
)

// Lifetime controls how often a registration is built.
type Lifetime int

const (
	// Singleton registrations are built once per owning registry.
	Singleton Lifetime = iota
	// Scoped registrations are built once per resolving scope.
	Scoped
	// Transient registrations are built on every resolution.
	Transient
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Factory builds a value of type T. The registry passed in is the one the
// value is being resolved from, so factories may resolve their own
// dependencies.
type Factory[T any] func(r *Registry) (T, error)

type registration struct {
	typeName string
	lifetime Lifetime
	build    func(r *Registry) (any, error)
}

// Registry resolves dependencies by type.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: a registry closes the io.Closer instances it built or cached.
type Registry struct {
	parent *Registry

	mu        sync.Mutex
	regs      map[reflect.Type]*registration
	instances map[reflect.Type]any
	owned     []io.Closer
	closed    bool
}

// New creates an empty root registry.
func New() *Registry {
	return &Registry{
		regs:      make(map[reflect.Type]*registration),
		instances: make(map[reflect.Type]any),
	}
}

// Scope creates a child registry. It sees every registration of its parents,
// shares their singletons, and holds its own Scoped instances. Registrations
// made on the scope shadow the parent's for that scope only.
func (r *Registry) Scope() *Registry {
	child := New()
	child.parent = r
	return child
}

// Parent returns the registry this scope was derived from, or nil for a root.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// TypeOf returns the registry key for T. Interface types are keyed by the
// interface itself, not by the dynamic type of a value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName returns a stable, human readable name for T.
func TypeName[T any]() string {
	return TypeOf[T]().String()
}

// Register adds a ready-built singleton value for T.
func Register[T any](r *Registry, value T) error {
	return Provide(r, Singleton, func(*Registry) (T, error) { return value, nil })
}

// Provide adds a factory for T with the given lifetime.
func Provide[T any](r *Registry, lifetime Lifetime, factory Factory[T]) error {
	if r == nil || factory == nil {
		return ErrInvalidRegistration
	}
	if lifetime < Singleton || lifetime > Transient {
		return fmt.Errorf("%w: unknown lifetime %d", ErrInvalidRegistration, lifetime)
	}

	key := TypeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, exists := r.regs[key]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key.String())
	}

	r.regs[key] = &registration{
		typeName: key.String(),
		lifetime: lifetime,
		build: func(from *Registry) (any, error) {
			return factory(from)
		},
	}
	return nil
}

// Get resolves T. It returns (zero, false) when T is not registered or its
// factory fails.
func Get[T any](r *Registry) (T, bool) {
	v, err := GetRequired[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// GetRequired resolves T, failing with ErrNotFound when T is not registered.
func GetRequired[T any](r *Registry) (T, error) {
	var zero T
	if r == nil {
		return zero, fmt.Errorf("%w: %s (nil registry)", ErrNotFound, TypeName[T]())
	}

	v, err := r.resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		if v == nil {
			return zero, nil
		}
		return zero, fmt.Errorf("registry: %s resolved to unexpected type %T", TypeName[T](), v)
	}
	return typed, nil
}

// Has reports whether T is registered in r or any of its parents.
func Has[T any](r *Registry) bool {
	if r == nil {
		return false
	}
	_, _, ok := r.lookup(TypeOf[T]())
	return ok
}

// lookup finds the registration for key and the registry that owns it.
func (r *Registry) lookup(key reflect.Type) (*registration, *Registry, bool) {
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		reg, ok := cur.regs[key]
		cur.mu.Unlock()
		if ok {
			return reg, cur, true
		}
	}
	return nil, nil, false
}

func (r *Registry) resolve(key reflect.Type) (any, error) {
	reg, owner, ok := r.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key.String())
	}

	var holder *Registry
	switch reg.lifetime {
	case Singleton:
		holder = owner
	case Scoped:
		holder = r
	case Transient:
		if err := r.checkOpen(); err != nil {
			return nil, err
		}
		v, err := reg.build(r)
		if err != nil {
			return nil, fmt.Errorf("registry: build %s: %w", reg.typeName, err)
		}
		return v, nil
	}

	holder.mu.Lock()
	if holder.closed {
		holder.mu.Unlock()
		return nil, ErrClosed
	}
	if v, ok := holder.instances[key]; ok {
		holder.mu.Unlock()
		return v, nil
	}
	holder.mu.Unlock()

	// Build outside the lock so factories can resolve other dependencies.
	v, err := reg.build(holder)
	if err != nil {
		return nil, fmt.Errorf("registry: build %s: %w", reg.typeName, err)
	}

	holder.mu.Lock()
	defer holder.mu.Unlock()

	if existing, ok := holder.instances[key]; ok {
		// Lost a concurrent build; keep the first instance.
		if c, ok := v.(io.Closer); ok && !isSameInstance(existing, v) {
			_ = c.Close()
		}
		return existing, nil
	}
	holder.instances[key] = v
	if c, ok := v.(io.Closer); ok {
		holder.owned = append(holder.owned, c)
	}
	return v, nil
}

func isSameInstance(a, b any) bool {
	defer func() { _ = recover() }()
	return a == b
}

func (r *Registry) checkOpen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// Names returns the registered type names visible from r, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		for _, reg := range cur.regs {
			seen[reg.typeName] = struct{}{}
		}
		cur.mu.Unlock()
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close closes every io.Closer instance cached by this registry, in reverse
// creation order, and rejects further resolution through it. Parents are not
// affected. Close is idempotent and returns the joined close errors.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	owned := r.owned
	r.owned = nil
	r.instances = make(map[reflect.Type]any)
	r.mu.Unlock()

	var errs []error
	for i := len(owned) - 1; i >= 0; i-- {
		if err := owned[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
