package record

import (
	"context"
	"sync"

	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
	"namehaus/pkg/platform/sentinel"
)

// MemoryStore keeps records in an arena slice indexed by id-1 plus a label
// index keyed by the keccak hash of the normalized name. One mutex covers
// both so a caller never observes them out of sync.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.Record
	labels  map[LabelHash]domain.RecordID
}

// NewMemoryStore creates an empty record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{labels: make(map[LabelHash]domain.RecordID)}
}

func (s *MemoryStore) Create(_ context.Context, rec *models.Record) (domain.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := HashLabel(rec.Name)
	if _, exists := s.labels[hash]; exists {
		return 0, sentinel.ErrConflict
	}

	id := domain.RecordID(len(s.records) + 1)
	stored := *rec
	stored.ID = id
	s.records = append(s.records, stored)
	s.labels[hash] = id
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id domain.RecordID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index(id)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec := s.records[idx]
	return &rec, nil
}

func (s *MemoryStore) Execute(_ context.Context, id domain.RecordID, validate func(*models.Record) error, mutate func(*models.Record)) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index(id)
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	rec := &s.records[idx]
	if err := validate(rec); err != nil {
		return nil, err
	}

	oldName := rec.Name
	mutate(rec)

	if rec.Name != oldName {
		if oldName != "" {
			delete(s.labels, HashLabel(oldName))
		}
		if rec.Name != "" {
			s.labels[HashLabel(rec.Name)] = id
		}
	}

	out := *rec
	return &out, nil
}

func (s *MemoryStore) MaxID(_ context.Context) (domain.RecordID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.RecordID(len(s.records)), nil
}

// index maps an id to its arena slot. Callers hold the lock.
func (s *MemoryStore) index(id domain.RecordID) (int, bool) {
	if id == 0 || int(id) > len(s.records) {
		return 0, false
	}
	return int(id) - 1, true
}
