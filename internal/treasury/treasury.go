// Package treasury handles settlement: forwarding purchase funds to the
// treasury identity and sweeping any residual balance.
package treasury

//go:generate mockgen -source=treasury.go -destination=mocks/forwarder.go -package=mocks

import (
	"context"

	"namehaus/pkg/domain"
)

// Forwarder moves a buyer's payment to the treasury account. The registry
// mutates its own state BEFORE calling Forward and holds its operation lock
// across the call, so a misbehaving implementation cannot re-enter
// mid-settlement and observe a half-applied purchase.
type Forwarder interface {
	Forward(ctx context.Context, from domain.Identity, amount domain.Amount) error
}
