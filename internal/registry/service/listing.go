package service

import (
	"context"
	"errors"

	"namehaus/internal/registry/models"
	"namehaus/internal/roles"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
	"namehaus/pkg/platform/sentinel"
)

// List creates a new listing and returns its id. Caller must hold lister (or
// admin). No payment occurs here.
func (s *Service) List(ctx context.Context, name string, price domain.Amount) (domain.RecordID, error) {
	ctx, span := s.tracer.Start(ctx, "registry.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(); err != nil {
		return 0, err
	}
	caller, err := s.caller(ctx)
	if err != nil {
		return 0, err
	}
	if !s.roles.Has(caller, roles.Lister) {
		return 0, dErrors.New(dErrors.CodeForbidden, "not authorized")
	}
	normalized, err := models.NormalizeName(name)
	if err != nil {
		return 0, err
	}

	id, err := s.records.Create(ctx, models.NewRecord(normalized, price, caller))
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return 0, dErrors.New(dErrors.CodeConflict, "name already exists")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create record")
	}

	s.emit(ctx, events.Event{
		Name:     events.EventRecordListed,
		RecordID: id,
		Label:    normalized,
		Price:    price,
		Actor:    caller,
	})
	if s.metrics != nil {
		s.metrics.IncrementListed()
	}
	return id, nil
}

// SetPrice updates the listed price. Caller must be the record's lister or an
// admin; repricing a purchased record is rejected.
func (s *Service) SetPrice(ctx context.Context, id domain.RecordID, newPrice domain.Amount) error {
	ctx, span := s.tracer.Start(ctx, "registry.SetPrice")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(); err != nil {
		return err
	}
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	var oldPrice domain.Amount
	_, err = s.records.Execute(ctx, id,
		func(r *models.Record) error {
			if err := s.requireListerOrAdmin(caller, r); err != nil {
				return err
			}
			return r.CanReprice()
		},
		func(r *models.Record) {
			oldPrice = r.Price
			r.ApplyReprice(newPrice)
		},
	)
	if err != nil {
		return translateRecordErr(err)
	}

	s.emit(ctx, events.Event{
		Name:     events.EventRecordPriceUpdated,
		RecordID: id,
		OldPrice: oldPrice,
		Price:    newPrice,
		Actor:    caller,
	})
	if s.metrics != nil {
		s.metrics.IncrementPriceUpdates()
	}
	return nil
}

// Delist clears the listing fields and frees the label for relisting. The id
// stays allocated forever and any recorded ownership is untouched.
func (s *Service) Delist(ctx context.Context, id domain.RecordID) error {
	ctx, span := s.tracer.Start(ctx, "registry.Delist")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(); err != nil {
		return err
	}
	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	_, err = s.records.Execute(ctx, id,
		func(r *models.Record) error {
			if err := s.requireListerOrAdmin(caller, r); err != nil {
				return err
			}
			return r.CanDelist()
		},
		func(r *models.Record) {
			r.ApplyDelist()
		},
	)
	if err != nil {
		return translateRecordErr(err)
	}

	s.emit(ctx, events.Event{
		Name:     events.EventRecordDelisted,
		RecordID: id,
		Actor:    caller,
	})
	if s.metrics != nil {
		s.metrics.IncrementDelisted()
	}
	return nil
}

// requireListerOrAdmin is the edit-authorization predicate: the record's
// lister or any admin.
func (s *Service) requireListerOrAdmin(caller domain.Identity, r *models.Record) error {
	if caller == r.Lister && !r.Lister.IsZero() {
		return nil
	}
	if s.roles.IsAdmin(caller) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "not authorized")
}

// translateRecordErr maps store sentinels onto domain errors, passing
// already-coded errors through unchanged.
func translateRecordErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "record store failure")
}
