package handlers

import (
	"encoding/json"
	"log"
	"os"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/realtime"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/storage"
)

// Process-wide collaborators, wired once at route setup. Tests assign these
// directly with private instances (same pattern as database.DB).
var (
	// SessionStore backs both cache kinds for the current server session.
	SessionStore cache.Store

	// URLSigner issues time-limited signed URLs for stored objects.
	URLSigner *storage.Signer

	// Objects persists uploaded attachment content.
	Objects *storage.ObjectStore
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDeps wires the session store, URL signer, and object store from the
// environment. Already-assigned collaborators are left alone so tests can
// pre-wire their own.
func InitDeps() {
	if SessionStore == nil {
		SessionStore = cache.NewMemoryStore()
	}
	if URLSigner == nil {
		URLSigner = storage.NewSigner(
			[]byte(getEnv("STORAGE_SECRET", "development-insecure-storage-secret")),
			getEnv("BASE_URL", "http://localhost:8008"),
		)
	}
	if Objects == nil {
		Objects = storage.NewObjectStore(getEnv("OBJECTS_DIR", "objects"))
	}
}

// broadcastEquipmentEvent fans an equipment change event out to every
// connected websocket client.
func broadcastEquipmentEvent(eventType, equipmentID string) {
	payload, err := json.Marshal(map[string]string{
		"type":        eventType,
		"equipmentId": equipmentID,
	})
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}
	realtime.GetHub().BroadcastAll(payload)
}
