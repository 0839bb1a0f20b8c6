package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/ppiankov/hirewatch/internal/model"
)

// DiskStore persists one JSON file per author under a directory. A file
// lock serializes writers across processes; readers go lockless because
// writes are atomic (temp file + rename).
type DiskStore struct {
	dir  string
	lock *flock.Flock
}

// NewDiskStore creates a disk store rooted at dir. The directory is
// created on first write.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".hirewatch.lock")),
	}
}

// Get reads an author file. A missing file means the author does not exist.
func (s *DiskStore) Get(key string) (model.Author, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Author{}, false, nil
		}
		return model.Author{}, false, wrapErr("read author file", err)
	}

	var author model.Author
	if err := json.Unmarshal(data, &author); err != nil {
		return model.Author{}, false, wrapErr("decode author file", err)
	}
	return author, true, nil
}

// Put writes the author atomically under the directory lock.
func (s *DiskStore) Put(key string, author model.Author) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return wrapErr("create store dir", err)
	}

	if err := s.lock.Lock(); err != nil {
		return wrapErr("acquire store lock", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.MarshalIndent(author, "", "  ")
	if err != nil {
		return wrapErr("encode author", err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return wrapErr("write author file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return wrapErr("commit author file", err)
	}
	return nil
}

// Delete removes an author file. Missing files are fine.
func (s *DiskStore) Delete(key string) error {
	if err := s.lock.Lock(); err != nil {
		return wrapErr("acquire store lock", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapErr("remove author file", err)
	}
	return nil
}

// Keys lists identity keys by reading each author file. Filenames are
// hashes, so the key has to come from the record itself.
func (s *DiskStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, wrapErr("list store dir", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, wrapErr("read author file", err)
		}
		var author model.Author
		if err := json.Unmarshal(data, &author); err != nil {
			continue // skip corrupt files rather than failing the listing
		}
		if author.IdentityKey != "" {
			keys = append(keys, author.IdentityKey)
		}
	}
	return keys, nil
}

// Clear removes the entire store directory.
func (s *DiskStore) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return wrapErr("clear store dir", err)
	}
	return nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, StoreKey(key)+".json")
}
