package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath means an object path tried to escape the objects directory.
var ErrInvalidPath = errors.New("storage: invalid object path")

// ObjectStore persists binary objects under a local directory, addressed by
// relative slash-separated paths.
type ObjectStore struct {
	dir string
}

// NewObjectStore constructs a store rooted at dir (created on first save).
func NewObjectStore(dir string) *ObjectStore {
	return &ObjectStore{dir: dir}
}

// FilePath resolves an object path to a filesystem path, rejecting any path
// that would escape the objects directory.
func (o *ObjectStore) FilePath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrInvalidPath
	}
	return filepath.Join(o.dir, clean), nil
}

// Save writes the object's content, creating parent directories as needed.
func (o *ObjectStore) Save(path string, r io.Reader) error {
	fp, err := o.FilePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return f.Sync()
}

// Remove deletes the object if present. Removing an absent object is not an
// error.
func (o *ObjectStore) Remove(path string) error {
	fp, err := o.FilePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
