package cache

import "time"

// Policy configures caching behavior for a query.
type Policy struct {
	// Enabled turns result caching on. When false every execution invokes
	// the query function.
	Enabled bool

	// TTL is how long a cached result stays valid.
	// If zero, entries never expire.
	TTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default caching policy.
// Enabled: true, TTL: none, MaxTTL: none
func DefaultPolicy() Policy {
	return Policy{Enabled: true}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.Enabled
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// A zero result means no expiry.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.TTL
	}

	if p.MaxTTL > 0 && (ttl <= 0 || ttl > p.MaxTTL) {
		ttl = p.MaxTTL
	}

	return ttl
}
