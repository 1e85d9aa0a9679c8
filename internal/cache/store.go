// Package cache provides the client-side read-through caches used to avoid
// re-issuing signed-URL requests and repeated sub-resource queries for
// equipment records. All caches sit on a keyed session store whose contents
// live for one session and are cleared on logout. The layer never returns
// errors to its consumers: a broken or corrupted store degrades to a cold
// cache, nothing more.
package cache

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when a key is absent.
var ErrNotFound = errors.New("cache: key not found")

// Store is the keyed session store the caches are built on. Values are
// opaque strings (the caches store JSON blobs). Implementations may fail on
// any operation; callers in this package treat failures as cache misses.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// MemoryStore is the in-process Store used for one server session.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

// Get implements Store.Get.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Store.Set.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Remove implements Store.Remove. Removing an absent key is not an error.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Clear implements Store.Clear. It drops every key, ending the session's
// cached state.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]string)
	return nil
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
