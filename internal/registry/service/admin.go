package service

import (
	"context"

	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
)

// SetPaused flips the global pause gate. Admin only. Deliberately not gated
// on the pause flag itself, or the registry could never be unpaused.
func (s *Service) SetPaused(ctx context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	s.gate.Set(paused)

	s.emit(ctx, events.Event{
		Name:   events.EventPauseSet,
		Actor:  caller,
		Paused: paused,
	})
	return nil
}

// SetBaseURI replaces the metadata base string. Admin only.
func (s *Service) SetBaseURI(ctx context.Context, uri string) error {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	s.baseMu.Lock()
	s.baseURI = uri
	s.baseMu.Unlock()

	if err := s.cache.Purge(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to purge resolve cache", "error", err)
	}

	s.emit(ctx, events.Event{
		Name:    events.EventBaseURIUpdated,
		Actor:   caller,
		BaseURI: uri,
	})
	return nil
}

// SetTreasury redirects future settlement. Admin only.
func (s *Service) SetTreasury(ctx context.Context, identity domain.Identity) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if identity.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "treasury identity is required")
	}
	s.settlement.SetTreasury(identity)
	return nil
}

// Withdraw sweeps the registry's residual balance (normally zero) to the
// treasury. Restricted to the single designated owner identity, which is
// distinct from admin in general.
func (s *Service) Withdraw(ctx context.Context) (domain.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.caller(ctx)
	if err != nil {
		return 0, err
	}
	if caller != s.owner {
		return 0, dErrors.New(dErrors.CodeForbidden, "caller is not the owner")
	}

	amount, err := s.settlement.Sweep(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "sweep failed")
	}

	// Emitted even for a zero sweep so auditors see the attempt.
	s.emit(ctx, events.Event{
		Name:     events.EventFundsWithdrawn,
		Actor:    caller,
		Treasury: s.settlement.Treasury(),
		Amount:   amount,
	})
	return amount, nil
}

func (s *Service) requireAdmin(ctx context.Context) (domain.Identity, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return "", err
	}
	if !s.roles.IsAdmin(caller) {
		return "", dErrors.New(dErrors.CodeForbidden, "not authorized")
	}
	return caller, nil
}
