package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/dmitrijs2005/patrimoine/internal/dbx"
)

// PreferencesService reads and changes the security toggles.
//
// Load prefers what the server reports for the session and keeps the local
// copy in step with it; without a session, or when the server cannot be
// reached, the local copy is returned. Update always writes locally first,
// so a failed server call leaves the new values in place on this device.
type PreferencesService interface {
	Load(ctx context.Context, s *models.Session) (models.Preferences, error)
	Update(ctx context.Context, s *models.Session, p models.Preferences) error
}

type preferencesService struct {
	client client.Client
	db     *sql.DB
}

func NewPreferencesService(client client.Client, db *sql.DB) PreferencesService {
	return &preferencesService{client: client, db: db}
}

func (p *preferencesService) Load(ctx context.Context, s *models.Session) (models.Preferences, error) {
	repo := metadata.NewSQLiteRepository(p.db)

	local, err := loadPreferences(ctx, repo)
	if err != nil {
		return models.Preferences{}, err
	}
	if s == nil {
		return local, nil
	}

	remote := p.remotePreferences(ctx, s)
	if remote == nil {
		return local, nil
	}
	if *remote != local {
		if err := p.store(ctx, *remote); err != nil {
			return models.Preferences{}, err
		}
	}
	return *remote, nil
}

// remotePreferences fetches fresh preferences, falling back to what the
// session captured at login. Nil means the server never reported any.
func (p *preferencesService) remotePreferences(ctx context.Context, s *models.Session) *models.Preferences {
	if profile, err := p.client.Me(ctx, s.Token); err == nil && profile.Preferences != nil {
		return profile.Preferences
	}
	if s.User != nil {
		return s.User.Preferences
	}
	return nil
}

func (p *preferencesService) Update(ctx context.Context, s *models.Session, prefs models.Preferences) error {
	if err := p.store(ctx, prefs); err != nil {
		return err
	}
	if s == nil || s.Token == "" {
		return ErrNotLoggedIn
	}
	if err := p.client.UpdateSecurity(ctx, s.Token, prefs); err != nil {
		return fmt.Errorf("update security error: %w", err)
	}
	return nil
}

func (p *preferencesService) store(ctx context.Context, prefs models.Preferences) error {
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return savePreferences(ctx, metadata.NewSQLiteRepository(tx), prefs)
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func loadPreferences(ctx context.Context, repo metadata.Repository) (models.Preferences, error) {
	usePin, _, err := repo.Get(ctx, models.KeyUsePin)
	if err != nil {
		return models.Preferences{}, err
	}
	useBio, _, err := repo.Get(ctx, models.KeyUseBiometrics)
	if err != nil {
		return models.Preferences{}, err
	}
	return models.Preferences{
		UsePin:        common.ParseBool(usePin),
		UseBiometrics: common.ParseBool(useBio),
	}, nil
}
