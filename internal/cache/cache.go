// Package cache memoizes derived views keyed by string.
package cache

import (
	"fmt"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)
}

// Kind selects a cache implementation.
type Kind string

const (
	KindLRU       Kind = "lru"
	KindRistretto Kind = "ristretto"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindLRU, KindRistretto:
		return true
	default:
		return false
	}
}

// New builds a cache of the given kind holding up to size entries for ttl.
func New[T any](kind Kind, size int, ttl time.Duration) (Cache[T], error) {
	switch kind {
	case KindLRU, "":
		return NewLRUCache[T](size, ttl), nil
	case KindRistretto:
		return NewRistrettoCache[T](size, ttl)
	default:
		return nil, fmt.Errorf("unknown cache kind %q", kind)
	}
}

// Close releases background resources held by c. Caches without any are left
// alone.
func Close[T any](c Cache[T]) {
	if cl, ok := c.(interface{ Close() }); ok {
		cl.Close()
	}
}
