package cache

import (
	"log"
	"sync"
)

// KeyFunc derives the session-store key for one cached resource kind from an
// equipment ID.
type KeyFunc func(equipmentID string) string

// Registry holds the key functions of every per-equipment cached resource,
// so bulk invalidation iterates registered patterns instead of a hand-kept
// key list.
type Registry struct {
	mu       sync.RWMutex
	keyFuncs []KeyFunc
}

// NewRegistry constructs a registry pre-loaded with the given key functions.
func NewRegistry(keyFuncs ...KeyFunc) *Registry {
	return &Registry{keyFuncs: keyFuncs}
}

// Register adds a key function for a new cached resource kind.
func (r *Registry) Register(fn KeyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keyFuncs = append(r.keyFuncs, fn)
}

// Keys returns every registered cache key for the given equipment ID.
func (r *Registry) Keys(equipmentID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.keyFuncs))
	for _, fn := range r.keyFuncs {
		keys = append(keys, fn(equipmentID))
	}
	return keys
}

// ClearEquipment removes every registered cache key for one equipment ID.
// Each removal failure is logged independently so one failing key does not
// abort the rest.
func (r *Registry) ClearEquipment(s Store, equipmentID string) {
	for _, key := range r.Keys(equipmentID) {
		if err := s.Remove(key); err != nil {
			log.Printf("WARN cache: clearing key %q for equipment %s failed: %v", key, equipmentID, err)
		}
	}
}

// DefaultRegistry knows every per-equipment cached resource: image URLs,
// file URLs, logs, and summary. A new cached resource kind must register its
// key function here, or its entries will outlive the equipment they belong to.
var DefaultRegistry = NewRegistry(
	ImagesURLKey,
	FilesURLKey,
	LogsDataKey,
	SummaryDataKey,
)

// ClearEquipmentCache removes all cache entries associated with one
// equipment record, across both cache kinds.
func ClearEquipmentCache(s Store, equipmentID string) {
	DefaultRegistry.ClearEquipment(s, equipmentID)
}
