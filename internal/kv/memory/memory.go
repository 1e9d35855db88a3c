package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"tracker/internal/kv"
)

var (
	_ kv.Store  = (*Store)(nil)
	_ kv.Pinger = (*Store)(nil)
)

type Store struct {
	mu    sync.Mutex
	items map[string][]byte
}

func New() *Store {
	return &Store{items: map[string][]byte{}}
}

// NewFromFiles seeds the store from base/<key>.json for each key whose file
// exists. Missing files are skipped.
func NewFromFiles(base string, keys ...string) *Store {
	s := New()
	for _, k := range keys {
		raw, err := os.ReadFile(filepath.Join(base, k+".json"))
		if err != nil {
			continue
		}
		s.items[k] = raw
	}
	return s
}

func (s *Store) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
