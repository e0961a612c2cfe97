// Package events defines the registry event log consumed by external
// subscribers (the browser UI polls or subscribes to refresh displayed state).
package events

import (
	"context"
	"time"

	"namehaus/pkg/domain"
)

// Name identifies an event type on the log.
type Name string

const (
	EventRecordListed       Name = "record_listed"
	EventRecordPriceUpdated Name = "record_price_updated"
	EventRecordDelisted     Name = "record_delisted"
	EventRecordMinted       Name = "record_minted"
	EventFundsWithdrawn     Name = "funds_withdrawn"
	EventRoleGranted        Name = "role_granted"
	EventRoleRevoked        Name = "role_revoked"
	EventPauseSet           Name = "pause_set"
	EventBaseURIUpdated     Name = "base_uri_updated"
)

// Event is emitted from domain logic after an operation has fully succeeded.
// Keep it transport-agnostic so stores and sinks can fan out.
//
// Only the fields relevant to a given Name are populated; the rest stay zero.
type Event struct {
	ID        string          `json:"id"`
	Name      Name            `json:"name"`
	Timestamp time.Time       `json:"timestamp"`
	RecordID  domain.RecordID `json:"record_id,omitempty"`
	Label     string          `json:"label,omitempty"`
	Price     domain.Amount   `json:"price,omitempty"`
	OldPrice  domain.Amount   `json:"old_price,omitempty"`
	// Actor is the identity that performed the operation (lister, editor,
	// buyer, admin) depending on the event.
	Actor    domain.Identity `json:"actor,omitempty"`
	Subject  domain.Identity `json:"subject,omitempty"`
	Role     string          `json:"role,omitempty"`
	Treasury domain.Identity `json:"treasury,omitempty"`
	Amount   domain.Amount   `json:"amount,omitempty"`
	Paused   bool            `json:"paused,omitempty"`
	BaseURI  string          `json:"base_uri,omitempty"`
	// Correlation metadata recorded for the UI and audit trails.
	RequestID string `json:"request_id,omitempty"`
	Client    string `json:"client,omitempty"`
}

// Log is the append side plus the read side used by polling clients.
type Log interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
	ListByRecord(ctx context.Context, id domain.RecordID) ([]Event, error)
}
