package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/client/biometric"
	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/patrimoine/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
	"github.com/dmitrijs2005/patrimoine/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

const (
	UnlockPromptMessage = "Unlock the application"
	UnlockFallbackLabel = "Enter code"
)

type BootstrapOptions struct {
	// StrictPinLock keeps a configured PIN in force when no biometric
	// hardware or enrollment exists. When false, such a device is let
	// through without a PIN prompt.
	StrictPinLock bool

	// VerifyRetries is how many extra /auth/me attempts are made after
	// a transport failure or 5xx. Zero means a single attempt.
	VerifyRetries uint64
	RetryDelay    time.Duration
}

// Bootstrapper decides the initial lock state of the client. Run it once at
// start-up; it reads the stored token and PIN, verifies the token with the
// backend, optionally challenges with biometrics, and resolves the machine.
type Bootstrapper struct {
	meta    metadata.Repository
	secrets secrets.Repository
	api     client.Client
	bio     biometric.Authenticator
	machine *session.Machine
	log     logging.Logger
	opts    BootstrapOptions
	now     func() time.Time
}

func NewBootstrapper(
	meta metadata.Repository,
	sec secrets.Repository,
	api client.Client,
	bio biometric.Authenticator,
	machine *session.Machine,
	log logging.Logger,
	opts BootstrapOptions,
) *Bootstrapper {
	return &Bootstrapper{
		meta:    meta,
		secrets: sec,
		api:     api,
		bio:     bio,
		machine: machine,
		log:     log.With("component", "bootstrap"),
		opts:    opts,
		now:     time.Now,
	}
}

// Run resolves the machine out of Loading and returns the resulting
// snapshot. It never fails: every error degrades to Unlocked without a
// session, except a failed or declined biometric challenge, which keeps the
// session behind the PIN. A second call returns the current snapshot
// without doing any work.
func (b *Bootstrapper) Run(ctx context.Context) (snap session.Snapshot) {
	if b.machine.Resolved() {
		return b.machine.Snapshot()
	}

	state, sess := session.Unlocked, (*models.Session)(nil)
	defer func() {
		if p := recover(); p != nil {
			b.log.Error(ctx, "bootstrap aborted", "panic", p)
			state, sess = session.Unlocked, nil
		}
		if err := b.machine.Resolve(state, sess); err != nil {
			b.log.Warn(ctx, "lock state not applied", "error", err)
		}
		snap = b.machine.Snapshot()
		b.log.Info(ctx, "bootstrap finished", "state", snap.State.String(), "authenticated", snap.Session != nil)
	}()

	state, sess = b.decide(ctx)
	return snap
}

func (b *Bootstrapper) decide(ctx context.Context) (session.LockState, *models.Session) {
	token, pin, err := b.readLocal(ctx)
	if err != nil {
		b.log.Warn(ctx, "local credentials unreadable", "error", err)
		return session.Unlocked, nil
	}
	if token == "" {
		b.log.Debug(ctx, "no stored token")
		return session.Unlocked, nil
	}

	if err := checkTokenExpiry(token, b.now()); err != nil {
		b.log.Info(ctx, "stored token rejected locally", "error", err)
		return session.Unlocked, nil
	}

	profile, err := b.verify(ctx, token)
	switch {
	case errors.Is(err, client.ErrRejected), errors.Is(err, client.ErrUnauthorized):
		b.log.Info(ctx, "session rejected by server", "error", err)
		return session.Unlocked, nil
	case err != nil:
		b.log.Warn(ctx, "session verification failed", "error", err)
		return session.Unlocked, nil
	}

	sess := &models.Session{Token: token, User: profile}
	if pin == "" {
		return session.Unlocked, sess
	}
	return b.gate(ctx), sess
}

// readLocal reads the token and the PIN concurrently.
func (b *Bootstrapper) readLocal(ctx context.Context) (token, pin string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, _, err := b.meta.Get(gctx, models.KeyToken)
		token = v
		return err
	})
	g.Go(func() error {
		v, _, err := b.secrets.Get(gctx, models.KeyAppPin)
		pin = v
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return token, pin, nil
}

func (b *Bootstrapper) verify(ctx context.Context, token string) (*models.UserProfile, error) {
	if b.opts.VerifyRetries == 0 {
		return b.api.Me(ctx, token)
	}

	delay := b.opts.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(b.opts.VerifyRetries, retry.NewConstant(delay))

	var profile *models.UserProfile
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := b.api.Me(ctx, token)
		if errors.Is(err, client.ErrUnavailable) {
			b.log.Debug(ctx, "verification attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	return profile, err
}

// gate applies the PIN lock for a verified session.
func (b *Bootstrapper) gate(ctx context.Context) session.LockState {
	if !b.biometricsAvailable(ctx) {
		if b.opts.StrictPinLock {
			return session.LockedAwaitingPin
		}
		return session.Unlocked
	}

	ok, err := b.bio.Authenticate(ctx, biometric.Prompt{
		Message:       UnlockPromptMessage,
		FallbackLabel: UnlockFallbackLabel,
	})
	if err != nil {
		b.log.Warn(ctx, "biometric prompt failed", "error", err)
		return session.LockedAwaitingPin
	}
	if !ok {
		return session.LockedAwaitingPin
	}
	return session.Unlocked
}

func (b *Bootstrapper) biometricsAvailable(ctx context.Context) bool {
	hw, err := b.bio.HasHardware(ctx)
	if err != nil {
		b.log.Warn(ctx, "biometric hardware query failed", "error", err)
		return false
	}
	if !hw {
		return false
	}
	enrolled, err := b.bio.IsEnrolled(ctx)
	if err != nil {
		b.log.Warn(ctx, "biometric enrollment query failed", "error", err)
		return false
	}
	return enrolled
}
