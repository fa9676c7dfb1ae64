package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"walletgate/internal/credential/models"
)

const uniqueViolation = "23505"

// PostgresStore persists credential records in PostgreSQL. Ordering rides on
// a monotonic seq column; batch atomicity and the fail-closed duplicate
// contract ride on a transaction plus the (identity, id) unique constraint.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, identity string, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credential append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `
		INSERT INTO wallet_credentials (identity, id, kind, types, payload)
		VALUES ($1, $2, $3, $4, $5)`
	for _, record := range records {
		types, err := json.Marshal(record.Types)
		if err != nil {
			return fmt.Errorf("encode credential types: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, identity, record.ID, string(record.Kind), types, []byte(record.Payload)); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrDuplicateID
			}
			return fmt.Errorf("insert credential: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credential append: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, identity string) ([]models.Record, error) {
	query := `
		SELECT id, kind, types, payload
		FROM wallet_credentials
		WHERE identity = $1
		ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, identity)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var (
			record  models.Record
			kind    string
			types   []byte
			payload []byte
		)
		if err := rows.Scan(&record.ID, &kind, &types, &payload); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		record.Kind = models.Kind(kind)
		record.Payload = payload
		if err := json.Unmarshal(types, &record.Types); err != nil {
			return nil, fmt.Errorf("decode credential types: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Delete(ctx context.Context, identity, id string) error {
	query := `DELETE FROM wallet_credentials WHERE identity = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, identity, id); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context, identity string) error {
	query := `DELETE FROM wallet_credentials WHERE identity = $1`
	if _, err := s.db.ExecContext(ctx, query, identity); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
