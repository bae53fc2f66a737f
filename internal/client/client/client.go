package client

import (
	"context"

	"github.com/dmitrijs2005/patrimoine/internal/client/models"
)

// AuthResult is what login and registration hand back.
type AuthResult struct {
	Token string
	User  *models.UserProfile
}

// Client is the backend API as seen by the services.
type Client interface {
	// Me verifies token and returns the profile it belongs to.
	Me(ctx context.Context, token string) (*models.UserProfile, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, email, password, fullName string) (*AuthResult, error)
	// UpdateSecurity stores the preferences of the token's owner.
	UpdateSecurity(ctx context.Context, token string, prefs models.Preferences) error
	Ping(ctx context.Context) error
	Close() error
}
