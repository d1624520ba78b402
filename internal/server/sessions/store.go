// Package sessions maps opaque bearer tokens to user ids on an expiring
// badger key-value store.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/osamanazar47/alx-files-manager/internal/common"
)

// ErrClosed is returned by Ping once the store has been closed.
var ErrClosed = errors.New("session store closed")

// Store issues, resolves and revokes session tokens. Every session lives
// for the same TTL, counted from issue time.
type Store struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the clock used for expiry. Tests use it to move time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens a badger database at path. An empty path keeps all sessions
// in memory.
func Open(path string, ttl time.Duration, opts ...Option) (*Store, error) {
	bopts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		bopts = bopts.WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store at %q: %w", path, err)
	}
	return New(db, ttl, opts...), nil
}

// New wraps an already opened badger database.
func New(db *badger.DB, ttl time.Duration, opts ...Option) *Store {
	s := &Store{db: db, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func key(token string) []byte {
	return []byte(common.SessionKeyPrefix + token)
}

// Issue creates a fresh session for userID and returns its token.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := uuid.NewString()
	entry := badger.NewEntry(key(token), []byte(userID))
	entry.ExpiresAt = uint64(s.now().Add(s.ttl).Unix())

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	}); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id bound to token. ok is false when the token
// is empty, unknown or expired; none of these are errors.
func (s *Store) Resolve(ctx context.Context, token string) (userID string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(token))
		if err != nil {
			return err
		}
		if exp := item.ExpiresAt(); exp != 0 && uint64(s.now().Unix()) >= exp {
			return badger.ErrKeyNotFound
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	return userID, true, nil
}

// Revoke deletes the session. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(token))
	}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping reports whether the store is usable.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// RunGC reclaims value-log space until ctx is done. In-memory stores have
// no value log and return immediately.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	if s.db.Opts().InMemory {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// Close releases the store; closing twice is a no-op.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}
