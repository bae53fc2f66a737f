package client

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestInitDatabase_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"goose_db_version", "metadata", "secrets"} {
		if !tableExists(t, db, table) {
			t.Fatalf("expected %s table to exist after migrations", table)
		}
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (first) error: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (second) should be idempotent, got error: %v", err)
	}
}

func TestOpenStore_SecretsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "app.db")
	keyFile := filepath.Join(dir, "device.key")

	s1, err := OpenStore(ctx, dsn, keyFile)
	require.NoError(t, err)
	require.NoError(t, s1.Metadata.Set(ctx, "token", "abc"))
	require.NoError(t, s1.Secrets.Set(ctx, "app_pin", "1234"))
	require.NoError(t, s1.Close())

	s2, err := OpenStore(ctx, dsn, keyFile)
	require.NoError(t, err)
	defer s2.Close()

	tok, ok, err := s2.Metadata.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	pin, ok, err := s2.Secrets.Get(ctx, "app_pin")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1234", pin)
}

func TestOpenStore_OtherDeviceKeyCannotReadSecrets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "app.db")

	s1, err := OpenStore(ctx, dsn, filepath.Join(dir, "a.key"))
	require.NoError(t, err)
	require.NoError(t, s1.Secrets.Set(ctx, "app_pin", "1234"))
	require.NoError(t, s1.Close())

	s2, err := OpenStore(ctx, dsn, filepath.Join(dir, "b.key"))
	require.NoError(t, err)
	defer s2.Close()

	_, _, err = s2.Secrets.Get(ctx, "app_pin")
	require.Error(t, err)
}

func TestOpenStore_CreatesMissingDirectories(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state", "patrimoine")

	s, err := OpenStore(ctx, filepath.Join(dir, "app.db"), filepath.Join(dir, "keys", "device.key"))
	require.NoError(t, err)
	defer s.Close()

	for _, p := range []string{filepath.Join(dir, "app.db"), filepath.Join(dir, "keys", "device.key")} {
		_, err := os.Stat(p)
		require.NoError(t, err, p)
	}
}
