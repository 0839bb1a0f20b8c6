package store

import "github.com/ppiankov/hirewatch/internal/model"

// LayeredStore fronts a durable backend with a memory layer. Reads
// promote into memory; writes go to both so the durable layer stays
// authoritative.
type LayeredStore struct {
	memory  Store
	durable Store
}

// NewLayeredStore wraps a durable backend with a memory layer.
func NewLayeredStore(durable Store) *LayeredStore {
	return &LayeredStore{
		memory:  NewMemoryStore(),
		durable: durable,
	}
}

// Get checks memory first, then the durable backend.
func (s *LayeredStore) Get(key string) (model.Author, bool, error) {
	if author, found, err := s.memory.Get(key); err == nil && found {
		return author, true, nil
	}

	author, found, err := s.durable.Get(key)
	if err != nil || !found {
		return author, found, err
	}

	// Promote for subsequent reads.
	_ = s.memory.Put(key, author)
	return author, true, nil
}

// Put writes through to both layers. A durable failure leaves memory
// untouched so the layers cannot diverge on error.
func (s *LayeredStore) Put(key string, author model.Author) error {
	if err := s.durable.Put(key, author); err != nil {
		return err
	}
	return s.memory.Put(key, author)
}

// Delete removes from both layers.
func (s *LayeredStore) Delete(key string) error {
	if err := s.durable.Delete(key); err != nil {
		return err
	}
	return s.memory.Delete(key)
}

// Keys lists from the durable layer, the authoritative record.
func (s *LayeredStore) Keys() ([]string, error) {
	return s.durable.Keys()
}

// Clear empties both layers.
func (s *LayeredStore) Clear() error {
	if err := s.durable.Clear(); err != nil {
		return err
	}
	return s.memory.Clear()
}
