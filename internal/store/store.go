package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ppiankov/hirewatch/internal/model"
)

// ErrPersistence marks failures of the storage collaborator. Callers
// check it with errors.Is; the core never retries.
var ErrPersistence = errors.New("persistence failure")

// Store is the key-value persistence collaborator mapping identity keys
// to authors. Implementations must provide read-modify-write atomicity
// per key when combined with the ledger's key locking.
type Store interface {
	// Get returns the author for the key, reporting whether it exists.
	Get(key string) (model.Author, bool, error)

	// Put stores the author under the key, overwriting any prior value.
	Put(key string, author model.Author) error

	// Delete removes the author for the key. Missing keys are not an error.
	Delete(key string) error

	// Keys lists every stored identity key.
	Keys() ([]string, error)

	// Clear removes all stored authors.
	Clear() error
}

// StoreKey derives a filesystem-safe key from an identity key.
func StoreKey(identityKey string) string {
	hash := sha256.Sum256([]byte(identityKey))
	return "hirewatch:v1:" + hex.EncodeToString(hash[:])
}

// wrapErr tags a backend failure so errors.Is(err, ErrPersistence) holds
// while keeping the operation context readable.
func wrapErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}
