package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// RistrettoCache adapts a ristretto cache to Cache. Every entry costs 1, so
// size bounds the number of entries.
type RistrettoCache[T any] struct {
	c   *ristretto.Cache[string, T]
	ttl time.Duration
}

func NewRistrettoCache[T any](size int, ttl time.Duration) (*RistrettoCache[T], error) {
	if size < 1 {
		size = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, T]{
		NumCounters: int64(size) * 10, // keys tracked for admission frequency
		MaxCost:     int64(size),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &RistrettoCache[T]{c: c, ttl: ttl}, nil
}

func (r *RistrettoCache[T]) Get(key string) (T, bool) {
	return r.c.Get(key)
}

// Set stores data and waits for the write buffer to drain so the value is
// visible to the next Get. Ristretto may still reject the entry.
func (r *RistrettoCache[T]) Set(key string, data T) {
	r.c.SetWithTTL(key, data, 1, r.ttl)
	r.c.Wait()
}

func (r *RistrettoCache[T]) Delete(key string) {
	r.c.Del(key)
}

func (r *RistrettoCache[T]) Close() {
	r.c.Close()
}
