package ownership

import (
	"context"
	"sync"

	"namehaus/pkg/domain"
	"namehaus/pkg/platform/sentinel"
)

// MemoryStore keeps the ownership ledger in a mutex-guarded map.
type MemoryStore struct {
	mu     sync.RWMutex
	owners map[domain.RecordID]domain.Identity
	total  uint64
}

// NewMemoryStore creates an empty ownership ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{owners: make(map[domain.RecordID]domain.Identity)}
}

func (s *MemoryStore) Record(_ context.Context, id domain.RecordID, owner domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.owners[id]; exists {
		return sentinel.ErrConflict
	}
	s.owners[id] = owner
	s.total++
	return nil
}

func (s *MemoryStore) OwnerOf(_ context.Context, id domain.RecordID) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[id]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return owner, nil
}

func (s *MemoryStore) TotalPurchased(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, nil
}
