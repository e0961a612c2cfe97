// Package record persists the record table and its label index. Both
// structures mutate inside one critical section so they never diverge.
package record

import (
	"context"

	"golang.org/x/crypto/sha3"

	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
)

// Store is the persistence contract for registry records.
type Store interface {
	// Create allocates the next dense id for the record and inserts it,
	// enforcing label uniqueness. Returns sentinel.ErrConflict when the
	// normalized name is already indexed.
	Create(ctx context.Context, rec *models.Record) (domain.RecordID, error)
	// Get returns a copy of the record. Returns sentinel.ErrNotFound for ids
	// that were never allocated.
	Get(ctx context.Context, id domain.RecordID) (*models.Record, error)
	// Execute runs validate then mutate on the record while holding the
	// store's lock, keeping the label index in lockstep with name changes.
	// Returns the mutated record, or the validate error unchanged.
	Execute(ctx context.Context, id domain.RecordID, validate func(*models.Record) error, mutate func(*models.Record)) (*models.Record, error)
	// MaxID returns the highest id allocated so far.
	MaxID(ctx context.Context) (domain.RecordID, error)
}

// LabelHash is the label index key: the keccak-256 digest of the normalized
// name. Hashing keeps the index key fixed-width regardless of name length.
type LabelHash [32]byte

// HashLabel digests a normalized name.
func HashLabel(name string) LabelHash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	var out LabelHash
	copy(out[:], h.Sum(nil))
	return out
}
