package store

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/hirewatch/internal/model"
)

// MemoryStore keeps authors in process memory. Entries never expire:
// authors are durable records, not cached computations.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves an author snapshot. The returned value is a deep copy so
// callers cannot alias stored state.
func (s *MemoryStore) Get(key string) (model.Author, bool, error) {
	val, found := s.cache.Get(key)
	if !found {
		return model.Author{}, false, nil
	}
	author, ok := val.(model.Author)
	if !ok {
		return model.Author{}, false, nil
	}
	return author.Clone(), true, nil
}

// Put stores a copy of the author.
func (s *MemoryStore) Put(key string, author model.Author) error {
	s.cache.Set(key, author.Clone(), gocache.NoExpiration)
	return nil
}

// Delete removes an author.
func (s *MemoryStore) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Keys lists all stored identity keys.
func (s *MemoryStore) Keys() ([]string, error) {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Clear removes all authors.
func (s *MemoryStore) Clear() error {
	s.cache.Flush()
	return nil
}
