// Package cache provides deterministic result caching for queries.
//
// It provides a byte-oriented Cache interface with memory and Redis
// implementations, SHA-256-based key derivation, a caching Policy, and a
// typed Store that encodes query results on top of any Cache.
package cache
