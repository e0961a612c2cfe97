package service

import (
	"context"
	"time"

	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
)

// Mint settles a purchase: the caller becomes the owner of the record and the
// full payment is forwarded to the treasury. No change is returned on
// overpayment.
//
// Effect ordering is deliberate: the record is marked purchased and the
// ownership entry written BEFORE the external transfer, and the operation
// mutex is held throughout, so a treasury implementation calling back into
// the registry cannot observe a half-settled purchase.
func (s *Service) Mint(ctx context.Context, id domain.RecordID, payment domain.Amount) error {
	ctx, span := s.tracer.Start(ctx, "registry.Mint")
	defer span.End()
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(); err != nil {
		return err
	}
	buyer, err := s.caller(ctx)
	if err != nil {
		return err
	}

	rec, err := s.records.Execute(ctx, id,
		func(r *models.Record) error {
			return r.CanPurchase(payment)
		},
		func(r *models.Record) {
			r.ApplyPurchase()
		},
	)
	if err != nil {
		return translateRecordErr(err)
	}

	if err := s.owners.Record(ctx, id, buyer); err != nil {
		// Purchased implies an ownership entry; hitting this means the two
		// stores disagreed.
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "failed to record ownership")
	}

	if err := s.forwarder.Forward(ctx, buyer, payment); err != nil {
		s.logger.ErrorContext(ctx, "settlement transfer failed after state mutation",
			"record_id", id,
			"buyer", buyer,
			"amount", payment,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "settlement transfer failed")
	}

	s.emit(ctx, events.Event{
		Name:     events.EventRecordMinted,
		RecordID: id,
		Label:    rec.Name,
		Price:    payment,
		Actor:    buyer,
	})
	if s.metrics != nil {
		s.metrics.ObserveMint(start, payment)
	}
	return nil
}
