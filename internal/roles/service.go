package roles

import (
	"context"

	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
	"namehaus/pkg/requestcontext"
)

// Service wraps the store with admin gating and event emission.
type Service struct {
	store Store
	log   events.Appender
}

// NewService builds the role service and seeds the deployer with admin and
// lister so at least one admin exists after construction.
func NewService(store Store, log events.Appender, deployer domain.Identity) *Service {
	store.Grant(deployer, Admin)
	store.Grant(deployer, Lister)
	return &Service{store: store, log: log}
}

// Grant assigns a role. Caller must hold admin.
func (s *Service) Grant(ctx context.Context, identity domain.Identity, role Role) error {
	caller := requestcontext.Caller(ctx)
	if !s.store.Has(caller, Admin) {
		return dErrors.New(dErrors.CodeForbidden, "not authorized")
	}
	if identity.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "identity is required")
	}
	s.store.Grant(identity, role)
	return s.log.Append(ctx, events.Event{
		Name:      events.EventRoleGranted,
		Timestamp: requestcontext.Now(ctx),
		Actor:     caller,
		Subject:   identity,
		Role:      role.String(),
		RequestID: requestcontext.RequestID(ctx),
		Client:    requestcontext.ClientName(ctx),
	})
}

// Revoke removes a role. Caller must hold admin. No self-lockout protection
// beyond caller discipline.
func (s *Service) Revoke(ctx context.Context, identity domain.Identity, role Role) error {
	caller := requestcontext.Caller(ctx)
	if !s.store.Has(caller, Admin) {
		return dErrors.New(dErrors.CodeForbidden, "not authorized")
	}
	s.store.Revoke(identity, role)
	return s.log.Append(ctx, events.Event{
		Name:      events.EventRoleRevoked,
		Timestamp: requestcontext.Now(ctx),
		Actor:     caller,
		Subject:   identity,
		Role:      role.String(),
		RequestID: requestcontext.RequestID(ctx),
		Client:    requestcontext.ClientName(ctx),
	})
}

// Has is a pure lookup. Admin implicitly satisfies lister queries.
func (s *Service) Has(identity domain.Identity, role Role) bool {
	if s.store.Has(identity, Admin) {
		return true
	}
	return s.store.Has(identity, role)
}

// Holds reports the raw assignment, without the admin implication. Used when
// displaying what an identity was actually granted.
func (s *Service) Holds(identity domain.Identity, role Role) bool {
	return s.store.Has(identity, role)
}

// IsAdmin reports whether the identity holds admin.
func (s *Service) IsAdmin(identity domain.Identity) bool {
	return s.store.Has(identity, Admin)
}
