package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-reflect"
)

// KeyPrefix starts every key produced by DefaultKeyer.
const KeyPrefix = "query"

// Keyer generates deterministic cache keys from a query identity and filter.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for filter within the given scope. The scope
	// identifies the query definition (result and filter type).
	Key(scope string, filter any) (string, error)
}

// KeySource lets a filter type supply its own stable representation instead
// of its JSON encoding.
type KeySource interface {
	CacheKey() string
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: query:<scope>:<hash>
// where hash is the first 16 characters of SHA-256(representation(filter)).
func (k *DefaultKeyer) Key(scope string, filter any) (string, error) {
	repr, err := representation(filter)
	if err != nil {
		return "", fmt.Errorf("cache: failed to encode filter: %w", err)
	}

	hash := sha256.Sum256(repr)
	key := KeyPrefix + ":" + sanitizeScope(scope) + ":" + hex.EncodeToString(hash[:8])
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// representation returns the bytes hashed for a filter. encoding/json sorts
// map keys, so equal maps produce equal output. A nil pointer hashes like
// nil, whatever methods its type has.
func representation(filter any) ([]byte, error) {
	if isNilPointer(filter) {
		return []byte("null"), nil
	}
	switch v := filter.(type) {
	case nil:
		return []byte("null"), nil
	case KeySource:
		return []byte("k:" + v.CacheKey()), nil
	case string:
		// Keep plain strings distinct from their JSON-quoted form.
		return []byte("s:" + v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return append([]byte("j:"), b...), nil
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func sanitizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "_"
	}
	return strings.NewReplacer("\n", "_", "\r", "_", " ", "").Replace(scope)
}

var _ Keyer = (*DefaultKeyer)(nil)
