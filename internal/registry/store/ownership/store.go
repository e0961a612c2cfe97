// Package ownership tracks which identity owns each purchased record and the
// running purchased count. Entries are write-once: ownership is
// non-transferable and never revoked, even when the listing is later cleared.
package ownership

import (
	"context"

	"namehaus/pkg/domain"
)

// Store is the persistence contract for the ownership ledger.
type Store interface {
	// Record writes the owner entry for id and increments the purchased
	// count. Returns sentinel.ErrConflict if the id already has an owner.
	Record(ctx context.Context, id domain.RecordID, owner domain.Identity) error
	// OwnerOf returns the owner, or sentinel.ErrNotFound if the id was never
	// purchased.
	OwnerOf(ctx context.Context, id domain.RecordID) (domain.Identity, error)
	// TotalPurchased returns the monotonically increasing purchased count.
	TotalPurchased(ctx context.Context) (uint64, error)
}
