// Package seed holds the starter listings created on a fresh deployment.
package seed

import (
	"context"
	"log/slog"

	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/requestcontext"
)

// Listing is a starter name and its asking price in base units.
type Listing struct {
	Name  string
	Price domain.Amount
}

// Listings are the six starter names offered on a fresh registry.
var Listings = []Listing{
	{Name: "jack.eth", Price: 10_000_000_000},
	{Name: "john.eth", Price: 25_000_000_000},
	{Name: "henry.eth", Price: 15_000_000_000},
	{Name: "cobalt.eth", Price: 2_500_000_000},
	{Name: "oxygen.eth", Price: 3_000_000_000},
	{Name: "carbon.eth", Price: 500_000_000},
}

// Lister is the slice of the registry service Apply needs.
type Lister interface {
	List(ctx context.Context, name string, price domain.Amount) (domain.RecordID, error)
}

// Apply lists every starter name as the deployer. Names that already exist are
// skipped, so reseeding a populated registry is harmless.
func Apply(ctx context.Context, svc Lister, deployer domain.Identity, logger *slog.Logger) error {
	ctx = requestcontext.WithCaller(ctx, deployer)
	for _, l := range Listings {
		id, err := svc.List(ctx, l.Name, l.Price)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				logger.InfoContext(ctx, "seed listing already exists", "name", l.Name)
				continue
			}
			return err
		}
		logger.InfoContext(ctx, "seeded listing", "name", l.Name, "record_id", id, "price", l.Price)
	}
	return nil
}
