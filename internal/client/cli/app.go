package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/client/biometric"
	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/config"
	"github.com/dmitrijs2005/patrimoine/internal/client/services"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
	"github.com/dmitrijs2005/patrimoine/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// bootstrapper is the start-up step that resolves the lock state.
type bootstrapper interface {
	Run(ctx context.Context) session.Snapshot
}

type App struct {
	config      *config.Config
	store       *client.Store
	machine     *session.Machine
	bootstrap   bootstrapper
	authService services.AuthService
	pinService  services.PinService
	prefService services.PreferencesService
	reader      *bufio.Reader

	modeMu sync.RWMutex
	mode   Mode
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	store, err := client.OpenStore(ctx, c.DatabasePath, c.KeyFilePath())
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bio, err := biometric.New(c.BiometricHelper)
	if err != nil {
		logger.Warn(ctx, "biometrics disabled", "error", err)
		bio = biometric.Unavailable{}
	}

	machine := session.NewMachine()
	boot := services.NewBootstrapper(store.Metadata, store.Secrets, apiClient, bio, machine, logger,
		services.BootstrapOptions{
			StrictPinLock: c.StrictPinLock,
			VerifyRetries: c.VerifyRetries,
			RetryDelay:    c.RetryDelay,
		})

	return &App{
		config:      c,
		store:       store,
		machine:     machine,
		bootstrap:   boot,
		authService: services.NewAuthService(apiClient, store.DB, machine),
		pinService:  services.NewPinService(store.Secrets, machine),
		prefService: services.NewPreferencesService(apiClient, store.DB),
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.store != nil {
			_ = a.store.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.machine.Snapshot().Authenticated()
}

// StartOnlineStatusWatcher probes the backend immediately and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
