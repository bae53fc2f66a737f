package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/dmitrijs2005/patrimoine/internal/client/biometric"
	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getMeta(t *testing.T, db *sql.DB, k string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func putMeta(t *testing.T, db *sql.DB, k, v string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

// ---- fake stores ----

// memStore implements both metadata.Repository and secrets.Repository.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	GetErr error
	SetErr error
	gets   int
}

func newMemStore(kv ...string) *memStore {
	m := &memStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		m.values[kv[i]] = kv[i+1]
	}
	return m
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memStore) List(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
	return nil
}

// ---- fake client ----

type fakeClient struct {
	MeFn    func(token string) (*models.UserProfile, error)
	MeCalls int
	MeToken string

	LoginRet *client.AuthResult
	LoginErr error

	RegisterRet *client.AuthResult
	RegisterErr error

	UpdateErr   error
	UpdateCalls int
	LastUpdate  models.Preferences
	LastToken   string

	PingErr  error
	CloseErr error

	LastEmail    string
	LastPassword string
	LastFullName string
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	f.MeCalls++
	f.MeToken = token
	if f.MeFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.MeFn(token)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, password, fullName string) (*client.AuthResult, error) {
	f.LastEmail, f.LastPassword, f.LastFullName = email, password, fullName
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) UpdateSecurity(ctx context.Context, token string, prefs models.Preferences) error {
	f.UpdateCalls++
	f.LastToken = token
	f.LastUpdate = prefs
	return f.UpdateErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }
func (f *fakeClient) Close() error                   { return f.CloseErr }

func okProfile(token string) (*models.UserProfile, error) {
	return &models.UserProfile{ID: 7, Email: "ana@example.com", FullName: "Ana"}, nil
}

// ---- fake biometrics ----

type fakeBio struct {
	Hardware    bool
	HardwareErr error
	Enrolled    bool
	EnrolledErr error
	AuthOK      bool
	AuthErr     error
	AuthPanic   bool

	Prompts []biometric.Prompt
}

func (f *fakeBio) HasHardware(context.Context) (bool, error) { return f.Hardware, f.HardwareErr }
func (f *fakeBio) IsEnrolled(context.Context) (bool, error)  { return f.Enrolled, f.EnrolledErr }
func (f *fakeBio) Authenticate(_ context.Context, p biometric.Prompt) (bool, error) {
	if f.AuthPanic {
		panic("biometric service crashed")
	}
	f.Prompts = append(f.Prompts, p)
	return f.AuthOK, f.AuthErr
}
