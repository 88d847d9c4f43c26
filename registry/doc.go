// Package registry provides a small type-keyed dependency registry.
//
// Values are registered and resolved by their Go type. Registrations carry a
// Lifetime:
//
//   - Singleton: built once and shared by the registry and all of its scopes.
//   - Scoped: built once per scope, for example one per user session.
//   - Transient: built on every resolution.
//
// A Registry is explicit state: hosts build one at startup, derive scopes with
// Scope, and pass them to whatever needs resolution. There is no global
// registry.
//
//	reg := registry.New()
//	_ = registry.Register(reg, &http.Client{Timeout: 10 * time.Second})
//	_ = registry.Provide(reg, registry.Scoped, func(*registry.Registry) (cache.Cache, error) {
//	    return cache.NewMemoryCache(), nil
//	})
//
//	session := reg.Scope()
//	defer session.Close()
//	c, err := registry.GetRequired[cache.Cache](session)
package registry
