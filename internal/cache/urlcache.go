package cache

// urlRecord is the serialized shape of one URL cache key: every object path
// carries its own entry so merge-writes can refresh some paths while leaving
// the rest untouched.
type urlRecord map[string]Entry[string]

// URLCache caches signed storage URLs for one group of objects (e.g. all
// images of one equipment record) under a single session-store key.
// Signing is a rate-relevant storage call, so batches of URLs are reused
// until shortly before they expire server-side.
type URLCache struct {
	store Store
	key   string
	mode  EvictionMode
}

// NewURLCache constructs a URL cache bound to one session-store key.
func NewURLCache(store Store, key string) *URLCache {
	return &URLCache{store: store, key: key, mode: EvictLazy}
}

// GetURLs returns a path->URL map covering every requested path, or false if
// any path is missing or expired. The batch is all-or-nothing so a caller
// never renders a mix of cached and missing URLs; on any gap it re-signs the
// whole batch. Pure read: expired paths are left in place (lazy eviction).
func (c *URLCache) GetURLs(paths []string) (map[string]string, bool) {
	if len(paths) == 0 {
		return nil, false
	}

	var rec urlRecord
	if !loadJSON(c.store, c.key, &rec) {
		return nil, false
	}

	urls := make(map[string]string, len(paths))
	for _, p := range paths {
		e, ok := rec[p]
		if !ok {
			return nil, false
		}
		if e.Expired() {
			expiredMiss(c.store, c.key, c.mode)
			return nil, false
		}
		urls[p] = e.Data
	}
	return urls, true
}

// SetURLs merges freshly signed URLs into the cached record. Every path
// written here gets the same new expiry (now + StorageURLTTL); paths already
// in the record but not in urls keep their previous entry untouched.
func (c *URLCache) SetURLs(urls map[string]string) {
	if len(urls) == 0 {
		return
	}

	rec := urlRecord{}
	// Best-effort merge base; a miss or corrupt record just means we start fresh.
	loadJSON(c.store, c.key, &rec)

	expiresAt := now().Add(StorageURLTTL)
	for p, u := range urls {
		rec[p] = Entry[string]{Data: u, ExpiresAt: expiresAt}
	}
	saveJSON(c.store, c.key, rec)
}

// Clear removes the whole record for this cache key. No error if absent.
func (c *URLCache) Clear() {
	removeKey(c.store, c.key)
}
