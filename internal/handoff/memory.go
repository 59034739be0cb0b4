package handoff

import (
	"context"
	"sync"
)

// MemorySlot is an in-memory Slot for tests and single-process setups.
type MemorySlot struct {
	mu       sync.Mutex
	bundles  map[string]Bundle
	newToken TokenGenerator
}

// NewMemorySlot creates an in-memory slot using newToken to mint tokens.
func NewMemorySlot(newToken TokenGenerator) *MemorySlot {
	return &MemorySlot{
		bundles:  make(map[string]Bundle),
		newToken: newToken,
	}
}

func (s *MemorySlot) Stash(_ context.Context, bundle *Bundle) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.newToken()
	s.bundles[token] = *bundle

	return token, nil
}

func (s *MemorySlot) Take(_ context.Context, token string) (*Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, ok := s.bundles[token]
	if !ok {
		return nil, ErrNotFound
	}

	delete(s.bundles, token)

	return &bundle, nil
}

// Compile-time check.
var _ Slot = (*MemorySlot)(nil)
