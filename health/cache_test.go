package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/jonwraymond/queryops/cache"
)

// brokenCache accepts nothing.
type brokenCache struct{}

var errWrite = errors.New("read-only")

func (brokenCache) Get(context.Context, string) ([]byte, bool)                { return nil, false }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errWrite }
func (brokenCache) Delete(context.Context, string) error                     { return nil }

// forgetfulCache accepts writes but never returns them.
type forgetfulCache struct{ brokenCache }

func (forgetfulCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func TestCacheChecker_Memory(t *testing.T) {
	mem := cache.NewMemoryCache()
	c := NewCacheChecker("memory", mem, CacheCheckerConfig{})

	r := c.Check(context.Background())
	if r.Status != StatusHealthy {
		t.Fatalf("Check() = %+v, want healthy", r)
	}
	if r.Details["method"] != "round_trip" {
		t.Errorf("method = %v, want round_trip", r.Details["method"])
	}
	if mem.Len() != 0 {
		t.Errorf("health entry left behind, Len() = %d", mem.Len())
	}
}

func TestCacheChecker_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.DialRedis(context.Background(), cache.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("DialRedis() error = %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })

	c := NewCacheChecker("redis", rc, CacheCheckerConfig{})
	r := c.Check(context.Background())
	if r.Status != StatusHealthy || r.Details["method"] != "ping" {
		t.Fatalf("Check() = %+v, want healthy ping", r)
	}

	mr.Close()
	r = c.Check(context.Background())
	if r.Status != StatusUnhealthy || r.Error == nil {
		t.Errorf("Check() after shutdown = %+v, want unhealthy", r)
	}
}

func TestCacheChecker_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend cache.Cache
		wantErr error
	}{
		{"nil", nil, cache.ErrNilCache},
		{"write fails", brokenCache{}, errWrite},
		{"read back mismatch", forgetfulCache{}, ErrProbeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCacheChecker(tt.name, tt.backend, CacheCheckerConfig{}).Check(context.Background())
			if r.Status != StatusUnhealthy {
				t.Errorf("Status = %v, want unhealthy", r.Status)
			}
			if !errors.Is(r.Error, tt.wantErr) {
				t.Errorf("Error = %v, want %v", r.Error, tt.wantErr)
			}
		})
	}
}

func TestCacheChecker_Slow(t *testing.T) {
	c := NewCacheChecker("memory", cache.NewMemoryCache(), CacheCheckerConfig{SlowThreshold: time.Second})
	now := time.Unix(0, 0)
	c.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	if r := c.Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("Check() = %+v, want degraded", r)
	}
}
