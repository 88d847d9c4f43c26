package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the typed view of a cache used by the query engine.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Get returns (zero, false) on miss or on entries it cannot turn into R.
// - Set overwrites unconditionally.
type Store[R any] interface {
	Get(ctx context.Context, key string) (R, bool)
	Set(ctx context.Context, key string, value R) error
	Delete(ctx context.Context, key string) error
}

// Codec encodes results into the bytes held by a Cache.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// StoreConfig configures a CodecStore.
type StoreConfig struct {
	// Codec encodes values. Default: JSONCodec.
	Codec Codec

	// TTL is passed to the underlying Cache on every Set. Default: 0 (no expiry).
	TTL time.Duration

	// OnDecodeError, if non-nil, receives entries that could not be decoded,
	// wrapped with ErrDecode. Get reports them as misses either way.
	OnDecodeError StoreErrorFunc
}

// CodecStore adapts a byte Cache into a typed Store.
type CodecStore[R any] struct {
	cache    Cache
	codec    Codec
	ttl      time.Duration
	onDecode StoreErrorFunc
}

// NewStore wraps c into a Store for result type R.
func NewStore[R any](c Cache, cfg StoreConfig) (*CodecStore[R], error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	return &CodecStore[R]{cache: c, codec: cfg.Codec, ttl: cfg.TTL, onDecode: cfg.OnDecodeError}, nil
}

// Get decodes the cached value for key.
func (s *CodecStore[R]) Get(ctx context.Context, key string) (R, bool) {
	var out R
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := s.codec.Unmarshal(raw, &out); err != nil {
		if s.onDecode != nil {
			s.onDecode(ctx, key, fmt.Errorf("%w: %w", ErrDecode, err))
		}
		var zero R
		return zero, false
	}
	return out, true
}

// Set encodes and stores value under key.
func (s *CodecStore[R]) Set(ctx context.Context, key string, value R) error {
	raw, err := s.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to encode value: %w", err)
	}
	return s.cache.Set(ctx, key, raw, s.ttl)
}

// Delete removes key from the underlying cache.
func (s *CodecStore[R]) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

// Backend returns the wrapped Cache.
func (s *CodecStore[R]) Backend() Cache {
	return s.cache
}

// ValueStore is a typed Store over a ValueCache. Values are kept as they are,
// so a hit returns exactly what was stored, unexported fields included.
type ValueStore[R any] struct {
	cache ValueCache
	ttl   time.Duration
}

// NewValueStore wraps c into a Store for result type R. ttl is applied on
// every Set; 0 means no expiry.
func NewValueStore[R any](c ValueCache, ttl time.Duration) (*ValueStore[R], error) {
	if c == nil {
		return nil, ErrNilCache
	}
	return &ValueStore[R]{cache: c, ttl: ttl}, nil
}

// Get returns the stored value for key. An entry of another type is a miss.
func (s *ValueStore[R]) Get(ctx context.Context, key string) (R, bool) {
	v, ok := s.cache.GetValue(ctx, key)
	if !ok {
		var zero R
		return zero, false
	}
	if v == nil {
		var zero R
		return zero, true
	}
	out, ok := v.(R)
	return out, ok
}

// Set stores value under key.
func (s *ValueStore[R]) Set(ctx context.Context, key string, value R) error {
	return s.cache.SetValue(ctx, key, value, s.ttl)
}

// Delete removes key from the underlying cache.
func (s *ValueStore[R]) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

var (
	_ Store[struct{}] = (*CodecStore[struct{}])(nil)
	_ Store[struct{}] = (*ValueStore[struct{}])(nil)
)
