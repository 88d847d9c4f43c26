package health

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jonwraymond/queryops/cache"
)

// CacheCheckerConfig configures a CacheChecker.
type CacheCheckerConfig struct {
	// SlowThreshold marks the backend degraded when a probe takes longer.
	// Default: 250ms
	SlowThreshold time.Duration

	// ProbeKey is the key written by the round-trip probe.
	// Default: "health:probe"
	ProbeKey string
}

// CacheChecker probes a query result cache.
type CacheChecker struct {
	name   string
	cache  cache.Cache
	config CacheCheckerConfig
	now    func() time.Time
}

// NewCacheChecker creates a checker for c.
func NewCacheChecker(name string, c cache.Cache, config CacheCheckerConfig) *CacheChecker {
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 250 * time.Millisecond
	}
	if config.ProbeKey == "" {
		config.ProbeKey = "health:probe"
	}
	return &CacheChecker{name: name, cache: c, config: config, now: time.Now}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string {
	return c.name
}

// Check pings the backend when it implements cache.Pinger, otherwise writes,
// reads back and deletes a probe entry.
func (c *CacheChecker) Check(ctx context.Context) Result {
	if c.cache == nil {
		return Unhealthy("cache not configured", cache.ErrNilCache)
	}

	start := c.now()
	method := "round_trip"
	var err error
	if p, ok := c.cache.(cache.Pinger); ok {
		method = "ping"
		err = p.Ping(ctx)
	} else {
		err = c.roundTrip(ctx)
	}
	elapsed := c.now().Sub(start)

	details := map[string]any{
		"method":     method,
		"latency_ms": float64(elapsed.Microseconds()) / 1000,
	}

	if err != nil {
		return Unhealthy("cache probe failed", err).WithDetails(details)
	}
	if elapsed > c.config.SlowThreshold {
		return Degraded(fmt.Sprintf("cache slow: %s", elapsed)).WithDetails(details)
	}
	return Healthy("cache reachable").WithDetails(details)
}

func (c *CacheChecker) roundTrip(ctx context.Context) error {
	want := []byte(strconv.FormatInt(c.now().UnixNano(), 10))
	if err := c.cache.Set(ctx, c.config.ProbeKey, want, time.Minute); err != nil {
		return err
	}
	defer func() { _ = c.cache.Delete(ctx, c.config.ProbeKey) }()

	got, ok := c.cache.Get(ctx, c.config.ProbeKey)
	if !ok || !bytes.Equal(got, want) {
		return ErrProbeMismatch
	}
	return nil
}
