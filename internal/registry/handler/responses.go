package handler

import (
	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
)

// RecordResponse is the wire shape of a registry record.
type RecordResponse struct {
	ID        domain.RecordID `json:"id"`
	Name      string          `json:"name"`
	Price     domain.Amount   `json:"price"`
	Purchased bool            `json:"purchased"`
	Lister    domain.Identity `json:"lister,omitempty"`
}

// FromRecord maps the domain record onto the response shape.
func FromRecord(rec *models.Record) RecordResponse {
	return RecordResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Price:     rec.Price,
		Purchased: rec.Purchased,
		Lister:    rec.Lister,
	}
}

// ListResponse carries the id assigned to a new listing.
type ListResponse struct {
	ID domain.RecordID `json:"id"`
}

// OwnerResponse carries the owner of a purchased record.
type OwnerResponse struct {
	ID    domain.RecordID `json:"id"`
	Owner domain.Identity `json:"owner"`
}

// URIResponse carries the resolved metadata URI.
type URIResponse struct {
	ID  domain.RecordID `json:"id"`
	URI string          `json:"uri"`
}

// StatsResponse summarizes registry counters for dashboards.
type StatsResponse struct {
	MaxID          domain.RecordID `json:"max_id"`
	TotalPurchased uint64          `json:"total_purchased"`
	Paused         bool            `json:"paused"`
	BaseURI        string          `json:"base_uri,omitempty"`
}

// WithdrawResponse carries the swept amount.
type WithdrawResponse struct {
	Amount domain.Amount `json:"amount"`
}

// RolesResponse lists the roles held by an identity.
type RolesResponse struct {
	Identity domain.Identity `json:"identity"`
	Roles    []string        `json:"roles"`
}
