package models

import (
	"strings"

	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
)

// MaxNameLength bounds listed names; longer labels are rejected at the edge.
const MaxNameLength = 255

// Record is one listable/purchasable named entry in the registry.
//
// Invariants:
//   - Name is stored lowercase; the empty string denotes a cleared slot
//   - Name is unique (case-insensitively) across all non-empty records
//   - ID is 1-based, dense, and never reused once allocated
//   - Purchased implies an entry exists in the ownership ledger for ID
//
// Lifecycle: created by List, repriced in place by SetPrice while unpurchased,
// logically cleared by Delist (listing fields reset, ID stays allocated), and
// terminally marked Purchased by Mint. Nothing un-sets Purchased: delisting a
// purchased record clears the storefront entry but leaves the sale intact.
type Record struct {
	ID        domain.RecordID `json:"id"`
	Name      string          `json:"name"`
	Price     domain.Amount   `json:"price"`
	Purchased bool            `json:"purchased"`
	Lister    domain.Identity `json:"lister"`
}

// IsCleared reports whether the slot was delisted (or never existed).
func (r *Record) IsCleared() bool {
	return r.Name == ""
}

// CanReprice checks that the record is live and still unpurchased.
// Post-purchase repricing is rejected: the sale already settled at the old
// price and there is no buyer left to protect.
func (r *Record) CanReprice() error {
	if r.IsCleared() {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	if r.Purchased {
		return dErrors.New(dErrors.CodeConflict, "record already purchased")
	}
	return nil
}

// ApplyReprice sets the new price. Call CanReprice first.
func (r *Record) ApplyReprice(newPrice domain.Amount) {
	r.Price = newPrice
}

// CanDelist checks that the record is live.
func (r *Record) CanDelist() error {
	if r.IsCleared() {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return nil
}

// ApplyDelist clears the listing fields. Purchased is deliberately left
// untouched; ownership is not a listing attribute.
func (r *Record) ApplyDelist() {
	r.Name = ""
	r.Price = 0
	r.Lister = ""
}

// CanPurchase checks that the record is live, unsold, and the payment covers
// the listed price.
func (r *Record) CanPurchase(payment domain.Amount) error {
	if r.IsCleared() {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	if r.Purchased {
		return dErrors.New(dErrors.CodeConflict, "record already purchased")
	}
	if payment < r.Price {
		return dErrors.New(dErrors.CodePaymentRequired, "insufficient payment")
	}
	return nil
}

// ApplyPurchase marks the record sold. Irreversible.
func (r *Record) ApplyPurchase() {
	r.Purchased = true
}

// NormalizeName lowercases and validates a listing name.
func NormalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if len(name) > MaxNameLength {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "name must be %d characters or less", MaxNameLength)
	}
	return name, nil
}

// NewRecord builds an unsold record for a normalized name.
func NewRecord(name string, price domain.Amount, lister domain.Identity) *Record {
	return &Record{Name: name, Price: price, Lister: lister}
}
