package cache

// DataCache caches one JSON-serializable value (a slice of log rows, a
// summary string) under a single session-store key. Its data is mutated by
// users far more often than signed URLs go stale, hence the short
// DatabaseDataTTL and the eager eviction on expired reads.
type DataCache[T any] struct {
	store Store
	key   string
	mode  EvictionMode
}

// NewDataCache constructs a data cache bound to one session-store key.
func NewDataCache[T any](store Store, key string) *DataCache[T] {
	return &DataCache[T]{store: store, key: key, mode: EvictEager}
}

// Get returns the cached value if present and not expired. An expired entry
// is removed from the store before the miss is reported: call sites re-fetch
// on every miss, so a dead key has no value.
func (c *DataCache[T]) Get() (T, bool) {
	var zero T

	var e Entry[T]
	if !loadJSON(c.store, c.key, &e) {
		return zero, false
	}
	if e.Expired() {
		expiredMiss(c.store, c.key, c.mode)
		return zero, false
	}
	return e.Data, true
}

// Set stores data with a fresh expiry, fully replacing any prior entry.
func (c *DataCache[T]) Set(data T) {
	saveJSON(c.store, c.key, newEntry(data, DatabaseDataTTL))
}

// Clear removes the key unconditionally.
func (c *DataCache[T]) Clear() {
	removeKey(c.store, c.key)
}
