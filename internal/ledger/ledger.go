// Package ledger maintains the append-only, deduplicated collection of
// hiring posts per author. It exclusively owns author records; the
// scoring engine only reads snapshots it returns.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/store"
)

// RecordInput is one normalized post observation.
type RecordInput struct {
	IdentityKey string
	DisplayName string
	Role        string
	Date        time.Time // date-only; zero when unparsable
	ObservedAt  time.Time
	Fingerprint string
}

// Ledger records posts against a persistence store, serializing
// concurrent writes per author. Writes to different authors proceed in
// parallel.
type Ledger struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a ledger over the given store.
func New(st store.Store) *Ledger {
	return &Ledger{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

// RecordPost records one observed post and returns the updated author
// snapshot. Recording the same (role, date, fingerprint) twice is
// idempotent. Storage failures propagate wrapped in store.ErrPersistence.
func (l *Ledger) RecordPost(ctx context.Context, in RecordInput) (model.Author, error) {
	if err := ctx.Err(); err != nil {
		return model.Author{}, err
	}

	lock := l.keyLock(in.IdentityKey)
	lock.Lock()
	defer lock.Unlock()

	author, found, err := l.store.Get(in.IdentityKey)
	if err != nil {
		return model.Author{}, fmt.Errorf("load author: %w", err)
	}

	observedAt := in.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	if !found {
		author = model.Author{
			IdentityKey: in.IdentityKey,
			FirstSeen:   observedAt,
		}
	}

	changed := !found

	// The unknown sentinel never overwrites a known name.
	if in.DisplayName != "" && in.DisplayName != model.NameUnknown && in.DisplayName != author.DisplayName {
		author.DisplayName = in.DisplayName
		changed = true
	}

	role := in.Role
	if role == "" {
		role = model.RoleUnknown
	}
	date := model.DateOnly(in.Date)

	if !author.HasPost(role, date, in.Fingerprint) {
		author.Posts = append(author.Posts, model.Post{
			Role:        role,
			Date:        date,
			ObservedAt:  observedAt,
			Fingerprint: in.Fingerprint,
		})
		changed = true
	}

	if changed {
		if err := l.store.Put(in.IdentityKey, author); err != nil {
			return model.Author{}, fmt.Errorf("persist author: %w", err)
		}
	}

	return author.Clone(), nil
}

// GetAuthor returns the current snapshot for an identity key. Unknown
// keys yield an empty author with FirstSeen set to now; the store is
// never written by a lookup.
func (l *Ledger) GetAuthor(ctx context.Context, identityKey string) (model.Author, error) {
	if err := ctx.Err(); err != nil {
		return model.Author{}, err
	}

	author, found, err := l.store.Get(identityKey)
	if err != nil {
		return model.Author{}, fmt.Errorf("load author: %w", err)
	}
	if !found {
		return model.Author{
			IdentityKey: identityKey,
			FirstSeen:   time.Now().UTC(),
		}, nil
	}
	return author, nil
}

// Keys lists every tracked identity key.
func (l *Ledger) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := l.store.Keys()
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return keys, nil
}

// Reset removes one author. Authors are otherwise never deleted.
func (l *Ledger) Reset(ctx context.Context, identityKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := l.keyLock(identityKey)
	lock.Lock()
	defer lock.Unlock()

	if err := l.store.Delete(identityKey); err != nil {
		return fmt.Errorf("reset author: %w", err)
	}
	return nil
}

// Clear removes every tracked author.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.store.Clear(); err != nil {
		return fmt.Errorf("clear authors: %w", err)
	}
	return nil
}

// keyLock returns the mutex serializing writes for one identity key.
func (l *Ledger) keyLock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}
