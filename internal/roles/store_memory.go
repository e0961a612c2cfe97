package roles

import (
	"sync"

	"namehaus/pkg/domain"
)

// MemoryStore keeps role assignments in a mutex-guarded map.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[domain.Identity]Role
}

// NewMemoryStore creates an empty role store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assignments: make(map[domain.Identity]Role)}
}

func (s *MemoryStore) Grant(identity domain.Identity, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[identity] |= role
}

func (s *MemoryStore) Revoke(identity domain.Identity, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.assignments[identity] &^ role
	if remaining == 0 {
		delete(s.assignments, identity)
		return
	}
	s.assignments[identity] = remaining
}

func (s *MemoryStore) Has(identity domain.Identity, role Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assignments[identity]&role != 0
}
