package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/patrimoine/internal/cryptox"
	"github.com/dmitrijs2005/patrimoine/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	key []byte
}

// NewSQLiteRepository returns a store sealing values with key, which must be
// a valid AES key (see cryptox.DeriveKey).
func NewSQLiteRepository(db dbx.DBTX, key []byte) *SQLiteRepository {
	return &SQLiteRepository{db: db, key: key}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var ciphertext, nonce []byte
	err := r.db.QueryRowContext(ctx, `SELECT ciphertext, nonce FROM secrets WHERE key = ?`, key).Scan(&ciphertext, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secret[%s]: %w", key, err)
	}

	plaintext, err := cryptox.Open(ciphertext, nonce, r.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to open secret[%s]: %w", key, err)
	}
	return string(plaintext), true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	ciphertext, nonce, err := cryptox.Seal([]byte(value), r.key)
	if err != nil {
		return fmt.Errorf("failed to seal secret[%s]: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO secrets (key, ciphertext, nonce) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET ciphertext = excluded.ciphertext, nonce = excluded.nonce
	`, key, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("failed to set secret[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete secret[%s]: %w", key, err)
	}
	return nil
}
