package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
	"github.com/dmitrijs2005/patrimoine/internal/common"
)

var (
	ErrPinMismatch      = errors.New("incorrect code")
	ErrPinNotConfigured = errors.New("no PIN configured")
	ErrInvalidPin       = fmt.Errorf("%w: PIN must be 4 to 8 digits", common.ErrorValidation)
)

const (
	minPinLength = 4
	maxPinLength = 8
)

// PinService owns the local unlock PIN.
//
// Unlock is the challenge shown while the machine is LockedAwaitingPin.
// A wrong code leaves the state untouched; there is no attempt limit.
type PinService interface {
	Unlock(ctx context.Context, code string) error
	IsConfigured(ctx context.Context) (bool, error)
	Set(ctx context.Context, code string) error
	Clear(ctx context.Context) error
}

type pinService struct {
	secrets secrets.Repository
	machine *session.Machine
}

func NewPinService(sec secrets.Repository, machine *session.Machine) PinService {
	return &pinService{secrets: sec, machine: machine}
}

func (p *pinService) Unlock(ctx context.Context, code string) error {
	if p.machine.Snapshot().State != session.LockedAwaitingPin {
		return session.ErrNotLocked
	}

	saved, ok, err := p.secrets.Get(ctx, models.KeyAppPin)
	if err != nil {
		return fmt.Errorf("read PIN: %w", err)
	}
	if !ok || saved == "" {
		return ErrPinNotConfigured
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(saved)) != 1 {
		return ErrPinMismatch
	}
	return p.machine.Unlock()
}

func (p *pinService) IsConfigured(ctx context.Context) (bool, error) {
	saved, ok, err := p.secrets.Get(ctx, models.KeyAppPin)
	if err != nil {
		return false, err
	}
	return ok && saved != "", nil
}

// Set stores a new PIN. It takes effect at the next start-up.
func (p *pinService) Set(ctx context.Context, code string) error {
	if err := validatePin(code); err != nil {
		return err
	}
	return p.secrets.Set(ctx, models.KeyAppPin, code)
}

func (p *pinService) Clear(ctx context.Context) error {
	return p.secrets.Delete(ctx, models.KeyAppPin)
}

func validatePin(code string) error {
	if len(code) < minPinLength || len(code) > maxPinLength {
		return ErrInvalidPin
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidPin
		}
	}
	return nil
}
