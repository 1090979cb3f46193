package session

import (
	"context"
	"sync"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"

	"go.uber.org/zap"
)

type memoryEntry struct {
	tier    cnst.Tier
	expires time.Time
}

// MemoryStore implements Store in process memory
type MemoryStore struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger:  logger.Named("session.store.memory"),
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetTier implements Store.GetTier
func (s *MemoryStore) GetTier(_ context.Context, sessionID string) (cnst.Tier, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.tier, true, nil
}

// SetTier implements Store.SetTier
func (s *MemoryStore) SetTier(_ context.Context, sessionID string, tier cnst.Tier, ttl time.Duration) error {
	e := memoryEntry{tier: tier}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[sessionID] = e
	s.mu.Unlock()
	s.logger.Debug("stored tier override",
		zap.String("session_id", sessionID),
		zap.String("tier", string(tier)))
	return nil
}

// Delete implements Store.Delete
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}
