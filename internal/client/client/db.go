package client

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/patrimoine/internal/client/migrations"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/dmitrijs2005/patrimoine/internal/cryptox"
	"github.com/dmitrijs2005/patrimoine/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// secretsSaltKey is the metadata key holding the hex salt for the secret
// store key derivation.
const secretsSaltKey = "secrets_salt"

// Store bundles the local database and the repositories built on it.
type Store struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Secrets  secrets.Repository
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY between the repositories.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// OpenStore opens the database at dsn and wires the repositories. The secret
// store key is derived from the device key in keyFile (created on first use)
// and a per-database salt kept in metadata.
func OpenStore(ctx context.Context, dsn, keyFile string) (*Store, error) {
	if filex.IsPlainPath(dsn) {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLocalDataNotAvailable, err)
		}
	}

	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocalDataNotAvailable, err)
	}

	meta := metadata.NewSQLiteRepository(db)

	deviceKey, err := cryptox.LoadOrCreateKeyFile(keyFile)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrLocalDataNotAvailable, err)
	}
	defer common.WipeByteArray(deviceKey)

	salt, err := loadOrCreateSalt(ctx, meta)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrLocalDataNotAvailable, err)
	}

	return &Store{
		DB:       db,
		Metadata: meta,
		Secrets:  secrets.NewSQLiteRepository(db, cryptox.DeriveKey(deviceKey, salt)),
	}, nil
}

func loadOrCreateSalt(ctx context.Context, meta metadata.Repository) ([]byte, error) {
	v, ok, err := meta.Get(ctx, secretsSaltKey)
	if err != nil {
		return nil, err
	}
	if ok {
		return hex.DecodeString(v)
	}

	v, err = common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	if err := meta.Set(ctx, secretsSaltKey, v); err != nil {
		return nil, err
	}
	return hex.DecodeString(v)
}
