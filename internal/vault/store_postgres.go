package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore persists encrypted seeds in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed seed store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, identity, ciphertext string) error {
	query := `
		INSERT INTO vault_seeds (identity, ciphertext, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (identity) DO UPDATE SET
			ciphertext = EXCLUDED.ciphertext,
			updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, identity, ciphertext); err != nil {
		return fmt.Errorf("store encrypted seed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, identity string) (string, error) {
	var ciphertext string
	query := `SELECT ciphertext FROM vault_seeds WHERE identity = $1`
	err := s.db.QueryRowContext(ctx, query, identity).Scan(&ciphertext)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load encrypted seed: %w", err)
	}
	return ciphertext, nil
}

func (s *PostgresStore) Delete(ctx context.Context, identity string) error {
	query := `DELETE FROM vault_seeds WHERE identity = $1`
	if _, err := s.db.ExecContext(ctx, query, identity); err != nil {
		return fmt.Errorf("delete encrypted seed: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
