package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"namehaus/internal/registry/models"
	"namehaus/pkg/domain"
	"namehaus/pkg/platform/sentinel"
)

// Schema creates the records table. A partial unique index enforces label
// uniqueness for live names only, so delisted slots keep their row (the id is
// never released) without blocking relisting.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT        NOT NULL DEFAULT '',
    label_hash BYTEA       NOT NULL DEFAULT ''::bytea,
    price      BIGINT      NOT NULL DEFAULT 0,
    purchased  BOOLEAN     NOT NULL DEFAULT FALSE,
    lister     TEXT        NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS records_label_hash_live
    ON records (label_hash) WHERE name <> '';
`

// PostgresStore persists records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the table definition. Idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.Record) (domain.RecordID, error) {
	hash := HashLabel(rec.Name)
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO records (name, label_hash, price, purchased, lister)
		 VALUES ($1, $2, $3, FALSE, $4)
		 RETURNING id`,
		rec.Name, hash[:], int64(rec.Price), rec.Lister.String(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("create record: %w", err)
	}
	return domain.RecordID(id), nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.RecordID) (*models.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT id, name, price, purchased, lister FROM records WHERE id = $1`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Execute locks the row FOR UPDATE for the validate/mutate pair, mirroring the
// memory store's critical section.
func (s *PostgresStore) Execute(ctx context.Context, id domain.RecordID, validate func(*models.Record) error, mutate func(*models.Record)) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT id, name, price, purchased, lister FROM records WHERE id = $1 FOR UPDATE`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock record: %w", err)
	}

	if err := validate(rec); err != nil {
		return nil, err
	}
	mutate(rec)

	hash := HashLabel(rec.Name)
	var labelHash []byte
	if rec.Name != "" {
		labelHash = hash[:]
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET name = $2, label_hash = $3, price = $4, purchased = $5, lister = $6 WHERE id = $1`,
		int64(id), rec.Name, labelHash, int64(rec.Price), rec.Purchased, rec.Lister.String(),
	); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) MaxID(ctx context.Context) (domain.RecordID, error) {
	var max int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM records`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max record id: %w", err)
	}
	return domain.RecordID(max), nil
}

func scanRecord(row *sql.Row) (*models.Record, error) {
	var (
		rec    models.Record
		id     int64
		price  int64
		lister string
	)
	if err := row.Scan(&id, &rec.Name, &price, &rec.Purchased, &lister); err != nil {
		return nil, err
	}
	rec.ID = domain.RecordID(id)
	rec.Price = domain.Amount(price)
	rec.Lister = domain.Identity(lister)
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
