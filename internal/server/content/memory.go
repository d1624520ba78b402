package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps content in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Write(ctx context.Context, data []byte) (string, error) {
	ref := uuid.NewString()
	return ref, s.WriteAt(ctx, ref, data)
}

func (s *MemoryStore) WriteAt(ctx context.Context, ref string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ref] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[ref]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", ref, ErrContentNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) Exists(ctx context.Context, ref string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[ref]
	return ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ref)
	return nil
}

// Len returns the number of stored references.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
