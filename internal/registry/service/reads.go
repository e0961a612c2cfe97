package service

import (
	"context"
	"errors"
	"strconv"

	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/platform/sentinel"
)

// GetRecord returns the record for id. IDs beyond the allocation high-water
// mark and cleared slots come back zero-valued rather than as errors, so
// clients can iterate 1..MaxID without special cases.
func (s *Service) GetRecord(ctx context.Context, id domain.RecordID) (*models.Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &models.Record{ID: id}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read record")
	}
	return rec, nil
}

// OwnerOf returns the owner of a purchased record.
func (s *Service) OwnerOf(ctx context.Context, id domain.RecordID) (domain.Identity, error) {
	owner, err := s.owners.OwnerOf(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "record not minted")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ownership")
	}
	return owner, nil
}

// MaxID returns the highest record id allocated so far.
func (s *Service) MaxID(ctx context.Context) (domain.RecordID, error) {
	id, err := s.records.MaxID(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read max id")
	}
	return id, nil
}

// TotalPurchased returns the monotonic purchased count.
func (s *Service) TotalPurchased(ctx context.Context) (uint64, error) {
	total, err := s.owners.TotalPurchased(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read purchased count")
	}
	return total, nil
}

// Resolve derives the display URI for a purchased record: base URI plus the
// decimal id. Unpurchased ids resolve to nothing.
func (s *Service) Resolve(ctx context.Context, id domain.RecordID) (string, error) {
	if _, err := s.owners.OwnerOf(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "record not minted")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ownership")
	}

	if uri, ok := s.cache.GetURI(ctx, id); ok {
		return uri, nil
	}

	s.baseMu.RLock()
	base := s.baseURI
	s.baseMu.RUnlock()

	uri := base + strconv.FormatUint(uint64(id), 10)
	s.cache.SetURI(ctx, id, uri)
	return uri, nil
}

// Paused reports the current pause gate state.
func (s *Service) Paused() bool {
	return s.gate.Paused()
}

// BaseURI returns the current metadata base string.
func (s *Service) BaseURI() string {
	s.baseMu.RLock()
	defer s.baseMu.RUnlock()
	return s.baseURI
}
