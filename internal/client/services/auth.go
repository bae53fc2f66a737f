// Package services contains the application services of the client: the
// start-up bootstrapper, authentication, the PIN challenge and the security
// preferences.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/dmitrijs2005/patrimoine/internal/dbx"
)

// ErrNotLoggedIn is returned by operations that need a session when there
// is none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / Register: authenticate against the server, persist the token
//     and reported preferences, and install the session.
//   - Logout: forget the stored token and drop the session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// Login, Register and Logout are only valid once the machine is Unlocked.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Register(ctx context.Context, email string, password []byte, fullName string) (*models.Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	db      *sql.DB
	machine *session.Machine
}

// NewAuthService constructs an AuthService bound to the given API client,
// local DB and lock-state machine.
func NewAuthService(client client.Client, db *sql.DB, machine *session.Machine) AuthService {
	return &authService{client: client, db: db, machine: machine}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	if err := a.requireUnlocked(); err != nil {
		return nil, err
	}
	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.startSession(ctx, res)
}

func (a *authService) Register(ctx context.Context, email string, password []byte, fullName string) (*models.Session, error) {
	if err := a.requireUnlocked(); err != nil {
		return nil, err
	}
	res, err := a.client.Register(ctx, email, string(password), fullName)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return a.startSession(ctx, res)
}

func (a *authService) requireUnlocked() error {
	if a.machine.Snapshot().State != session.Unlocked {
		return session.ErrInvalidTransition
	}
	return nil
}

func (a *authService) startSession(ctx context.Context, res *client.AuthResult) (*models.Session, error) {
	if res == nil || res.Token == "" {
		return nil, common.ErrInvalidToken
	}
	if err := a.saveSession(ctx, res); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	s := &models.Session{Token: res.Token, User: res.User}
	if err := a.machine.SignIn(s); err != nil {
		return nil, err
	}
	return s, nil
}

// saveSession persists the token and, when reported, the preference flags
// in a single transaction.
func (a *authService) saveSession(ctx context.Context, res *client.AuthResult) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, models.KeyToken, res.Token); err != nil {
			return err
		}
		if res.User == nil || res.User.Preferences == nil {
			return nil
		}
		return savePreferences(ctx, repo, *res.User.Preferences)
	})
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.requireUnlocked(); err != nil {
		return err
	}
	if err := a.getMetadataRepo().Delete(ctx, models.KeyToken); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	return a.machine.SignOut()
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func savePreferences(ctx context.Context, repo metadata.Repository, p models.Preferences) error {
	if err := repo.Set(ctx, models.KeyUsePin, common.FormatBool(p.UsePin)); err != nil {
		return err
	}
	return repo.Set(ctx, models.KeyUseBiometrics, common.FormatBool(p.UseBiometrics))
}
