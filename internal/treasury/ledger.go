package treasury

import (
	"context"
	"sync"

	"namehaus/pkg/domain"
)

// Ledger is an in-memory account book. It tracks per-identity balances, the
// current treasury identity, and the registry's own residual balance (funds
// that accumulated outside normal settlement). Normal settlement forwards
// the full payment straight through, so the residual is normally zero.
type Ledger struct {
	mu       sync.Mutex
	treasury domain.Identity
	balances map[domain.Identity]domain.Amount
	residual domain.Amount
}

// NewLedger creates a ledger forwarding to the given treasury identity.
func NewLedger(treasury domain.Identity) *Ledger {
	return &Ledger{
		treasury: treasury,
		balances: make(map[domain.Identity]domain.Amount),
	}
}

// Forward credits the full amount to the treasury account. Implements
// Forwarder.
func (l *Ledger) Forward(_ context.Context, _ domain.Identity, amount domain.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[l.treasury] += amount
	return nil
}

// Deposit credits funds to the registry's own residual balance. Models value
// arriving outside a purchase (the analog of a bare transfer).
func (l *Ledger) Deposit(amount domain.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.residual += amount
}

// Sweep moves the entire residual balance to the treasury and returns the
// swept amount, zero included.
func (l *Ledger) Sweep(_ context.Context) (domain.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount := l.residual
	l.residual = 0
	l.balances[l.treasury] += amount
	return amount, nil
}

// Residual returns the registry's own balance.
func (l *Ledger) Residual() domain.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.residual
}

// BalanceOf returns the balance credited to an identity.
func (l *Ledger) BalanceOf(identity domain.Identity) domain.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[identity]
}

// Treasury returns the current treasury identity.
func (l *Ledger) Treasury() domain.Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.treasury
}

// SetTreasury changes the receiving identity. Admin gating happens in the
// registry service.
func (l *Ledger) SetTreasury(identity domain.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.treasury = identity
}
