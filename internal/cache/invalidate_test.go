package cache

import (
	"errors"
	"testing"
)

func TestClearEquipmentCache_Isolation(t *testing.T) {
	freezeClock(t)
	s := NewMemoryStore()

	// Populate all four resource kinds for two equipment records.
	for _, id := range []string{"123", "456"} {
		NewURLCache(s, ImagesURLKey(id)).SetURLs(map[string]string{"p": "u"})
		NewURLCache(s, FilesURLKey(id)).SetURLs(map[string]string{"p": "u"})
		NewDataCache[[]string](s, LogsDataKey(id)).Set([]string{"l"})
		NewDataCache[string](s, SummaryDataKey(id)).Set("s")
	}

	ClearEquipmentCache(s, "123")

	for _, key := range DefaultRegistry.Keys("123") {
		if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected %q removed, got %v", key, err)
		}
	}
	for _, key := range DefaultRegistry.Keys("456") {
		if _, err := s.Get(key); err != nil {
			t.Fatalf("expected %q intact, got %v", key, err)
		}
	}
}

func TestRegistry_RegisterExtendsInvalidation(t *testing.T) {
	s := NewMemoryStore()
	reg := NewRegistry(ImagesURLKey)
	reg.Register(func(id string) string { return "data:manuals:" + id })

	if err := s.Set("data:manuals:9", "x"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ImagesURLKey("9"), "y"); err != nil {
		t.Fatal(err)
	}

	reg.ClearEquipment(s, "9")

	if _, err := s.Get("data:manuals:9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected registered key removed, got %v", err)
	}
	if _, err := s.Get(ImagesURLKey("9")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected images key removed, got %v", err)
	}
}

func TestRegistry_ClearContinuesPastFailures(t *testing.T) {
	// Every removal fails; the loop must still visit all keys without panicking.
	DefaultRegistry.ClearEquipment(failingStore{}, "123")
}

func TestDefaultRegistry_KnowsAllResourceKinds(t *testing.T) {
	keys := DefaultRegistry.Keys("123")
	want := map[string]bool{
		"urls:images:123":  true,
		"urls:files:123":   true,
		"data:logs:123":    true,
		"data:summary:123": true,
	}
	if len(keys) < len(want) {
		t.Fatalf("expected at least %d keys, got %v", len(want), keys)
	}
	for _, k := range keys {
		delete(want, k)
	}
	if len(want) != 0 {
		t.Fatalf("missing keys: %v", want)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected store empty after clear, got %v", err)
	}
	// Removing an absent key is not an error.
	if err := s.Remove("k"); err != nil {
		t.Fatal(err)
	}
}
