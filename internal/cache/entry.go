package cache

import (
	"encoding/json"
	"errors"
	"log"
	"time"
)

// TTLs for the two cache kinds. Both are fixed: these match the staleness
// tolerance of the data, not the deployment.
const (
	// StorageURLTTL is deliberately shorter than the 60-minute validity the
	// server requests when signing URLs (storage.SignedURLValidity). The
	// 10-minute margin guarantees the cache never hands out a URL that has
	// already expired on the storage side.
	StorageURLTTL = 50 * time.Minute

	// DatabaseDataTTL covers logs and summaries, which users edit far more
	// often than attachments change, so their window is short.
	DatabaseDataTTL = 5 * time.Minute
)

// now is a small indirection to allow test stubbing.
var now = time.Now

// Entry wraps a cached value with its absolute expiration timestamp,
// computed once at write time as now + ttl. Cached values are immutable
// snapshots; they are only ever replaced wholesale.
type Entry[T any] struct {
	Data      T         `json:"data"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newEntry[T any](data T, ttl time.Duration) Entry[T] {
	return Entry[T]{Data: data, ExpiresAt: now().Add(ttl)}
}

// Expired reports whether the entry's expiry has been reached.
func (e Entry[T]) Expired() bool {
	return !now().Before(e.ExpiresAt)
}

// EvictionMode names what a read does when it observes an expired entry.
type EvictionMode int

const (
	// EvictLazy leaves the expired entry in the store; it is simply
	// reported absent. Used by the URL cache, whose entries are overwritten
	// on the very next re-sign anyway.
	EvictLazy EvictionMode = iota

	// EvictEager removes the underlying key as soon as a read observes
	// expiry. Used by the data cache: its call sites re-fetch on every miss,
	// so a dead key serves no purpose.
	EvictEager
)

// expiredMiss applies the eviction mode for a key whose entry was read as
// expired.
func expiredMiss(s Store, key string, mode EvictionMode) {
	if mode != EvictEager {
		return
	}
	if err := s.Remove(key); err != nil {
		log.Printf("WARN cache: removing expired key %q failed: %v", key, err)
	}
}

// loadJSON reads and decodes the JSON value stored under key into dst.
// An absent key is a plain miss; store failures and malformed payloads are
// also misses, with a logged warning. Never returns an error to the caller.
func loadJSON(s Store, key string, dst any) bool {
	raw, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		log.Printf("WARN cache: reading key %q failed: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("WARN cache: malformed entry under key %q: %v", key, err)
		return false
	}
	return true
}

// saveJSON encodes v and writes it under key. Failures skip the write with a
// logged warning; caching is an optimization, never a source of failure.
func saveJSON(s Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("WARN cache: encoding entry for key %q failed: %v", key, err)
		return
	}
	if err := s.Set(key, string(raw)); err != nil {
		log.Printf("WARN cache: writing key %q failed: %v", key, err)
	}
}

// removeKey removes key, logging instead of propagating any failure.
func removeKey(s Store, key string) {
	if err := s.Remove(key); err != nil {
		log.Printf("WARN cache: removing key %q failed: %v", key, err)
	}
}
