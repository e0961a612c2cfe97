package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"namehaus/pkg/domain"
	"namehaus/pkg/platform/sentinel"
)

// Schema creates the ownership table. The primary key makes entries
// write-once at the database level.
const Schema = `
CREATE TABLE IF NOT EXISTS ownership (
    record_id BIGINT PRIMARY KEY,
    owner     TEXT   NOT NULL
);
`

// PostgresStore persists the ownership ledger via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed ownership ledger.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema applies the table definition. Idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure ownership schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, id domain.RecordID, owner domain.Identity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ownership (record_id, owner) VALUES ($1, $2)`,
		int64(id), owner.String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("record ownership: %w", err)
	}
	return nil
}

func (s *PostgresStore) OwnerOf(ctx context.Context, id domain.RecordID) (domain.Identity, error) {
	var owner string
	err := s.pool.QueryRow(ctx,
		`SELECT owner FROM ownership WHERE record_id = $1`, int64(id),
	).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("owner of %d: %w", id, err)
	}
	return domain.Identity(owner), nil
}

func (s *PostgresStore) TotalPurchased(ctx context.Context) (uint64, error) {
	var total uint64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ownership`).Scan(&total); err != nil {
		return 0, fmt.Errorf("total purchased: %w", err)
	}
	return total, nil
}
