package query

import (
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/queryops/cache"
	"github.com/jonwraymond/queryops/registry"
)

// DefaultHTTPTimeout is the timeout of the *http.Client registered by
// RegisterDefaults.
const DefaultHTTPTimeout = 30 * time.Second

// RegisterDefaults registers the resources queries expect:
//
//   - a singleton *http.Client, shared by every scope;
//   - a scoped cache.Cache backed by cache.MemoryCache, one per scope.
//
// Types the host registered beforehand are left alone, so hosts can swap in
// a RedisCache or a tuned client by registering it first.
func RegisterDefaults(reg *registry.Registry) error {
	if reg == nil {
		return ErrNotInitialized
	}

	var errs []error
	if !registry.Has[*http.Client](reg) {
		errs = append(errs, registry.Provide(reg, registry.Singleton, func(*registry.Registry) (*http.Client, error) {
			return &http.Client{Timeout: DefaultHTTPTimeout}, nil
		}))
	}
	if !registry.Has[cache.Cache](reg) {
		errs = append(errs, registry.Provide(reg, registry.Scoped, func(*registry.Registry) (cache.Cache, error) {
			return cache.NewMemoryCache(), nil
		}))
	}
	return errors.Join(errs...)
}
