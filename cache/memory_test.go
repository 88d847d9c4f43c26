package cache

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_GetSetDelete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if val, ok := cache.Get(ctx, "nonexistent"); ok || val != nil {
		t.Errorf("Get on empty cache = (%q, %v), want (nil, false)", val, ok)
	}

	key := "test-key"
	value := []byte("test-value")
	if err := cache.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatal("Get after Set should return ok=true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := cache.Get(ctx, key); ok {
		t.Error("Get after Delete should return ok=false")
	}

	// Delete is idempotent
	if err := cache.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("Delete on non-existent key should not error, got: %v", err)
	}
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Unix(1_700_000_000, 0)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(365 * 24 * time.Hour)
	if _, ok := cache.Get(ctx, "forever"); !ok {
		t.Error("entry without TTL should not expire")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Unix(1_700_000_000, 0)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "expiring", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, ok := cache.Get(ctx, "expiring"); !ok {
		t.Error("entry should be present before TTL elapses")
	}

	now = now.Add(time.Minute)
	if _, ok := cache.Get(ctx, "expiring"); ok {
		t.Error("entry should be expired after TTL elapses")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be collected on read, Len() = %d", cache.Len())
	}
}

func TestMemoryCache_SetOverwrite(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("value1"), 0)
	_ = cache.Set(ctx, "k", []byte("value2"), 0)

	got, ok := cache.Get(ctx, "k")
	if !ok || !bytes.Equal(got, []byte("value2")) {
		t.Errorf("Get after overwrite = (%q, %v), want (value2, true)", got, ok)
	}
}

func TestMemoryCache_RejectsInvalidKey(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Set(context.Background(), "", []byte("v"), 0); err != ErrInvalidKey {
		t.Errorf("Set with empty key = %v, want %v", err, ErrInvalidKey)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = cache.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0)
	}
	if cache.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", cache.Len())
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	const numGoroutines = 50
	const opsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				switch j % 3 {
				case 0:
					_ = cache.Set(ctx, "concurrent-key", []byte("v"), time.Minute)
				case 1:
					_, _ = cache.Get(ctx, "concurrent-key")
				case 2:
					_ = cache.Delete(ctx, "concurrent-key")
				}
			}
		}()
	}

	wg.Wait()
}

var _ Cache = (*MemoryCache)(nil)
