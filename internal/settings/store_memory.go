package settings

import (
	"context"
	"sync"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
)

// MemoryStore keeps settings in process memory. Used when no Redis URL is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	current domain.Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{current: domain.Settings{EventTitle: domain.DefaultEventTitle}}
}

func (s *MemoryStore) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *MemoryStore) Set(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	return nil
}
