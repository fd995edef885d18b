// Package server initializes and runs the core server process. It
// opens the configured storage backend, runs migrations, wires the
// recipe services, and keeps a background sweeper removing expired
// sessions, reset tokens, and passwordless codes.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dashboard"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/emailpassword"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/logging"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/passwordless"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/server/config"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/postgres"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlite"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage/sqlstore"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage storage.Storage

	dashboardService     *dashboard.Service
	emailPasswordService *emailpassword.Service
	passwordlessService  *passwordless.Service
}

// openStorage picks the driver named in the config.
func openStorage(c *config.Config) (*sqlstore.Store, error) {
	switch c.StorageBackend {
	case config.BackendPostgres:
		return postgres.Open(c.DatabaseDSN, c.TxMaxRetries)
	case config.BackendSQLite:
		return sqlite.Open(c.SQLitePath, c.TxMaxRetries)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(c.LogLevel)

	store, err := openStorage(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	ds := dashboard.NewService(store, c.SessionValidityDuration, []byte(c.SecretKey))
	eps := emailpassword.NewService(store, c.ResetTokenValidityDuration)
	pls := passwordless.NewService(store, c.CodeValidityDuration)

	return &App{
		config:               c,
		logger:               logger,
		storage:              store,
		dashboardService:     ds,
		emailPasswordService: eps,
		passwordlessService:  pls,
	}, nil
}

// DashboardService exposes the dashboard recipe service.
func (app *App) DashboardService() *dashboard.Service { return app.dashboardService }

// EmailPasswordService exposes the email-password recipe service.
func (app *App) EmailPasswordService() *emailpassword.Service { return app.emailPasswordService }

// PasswordlessService exposes the passwordless recipe service.
func (app *App) PasswordlessService() *passwordless.Service { return app.passwordlessService }

// Storage exposes the underlying storage, mainly for multitenancy
// management operations.
func (app *App) Storage() storage.Storage { return app.storage }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runSweeper deletes expired rows on every tick until ctx is done.
func (app *App) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sweepOnce(ctx)
		}
	}
}

func (app *App) sweepOnce(ctx context.Context) {
	sessions, err := app.dashboardService.SweepExpiredSessions(ctx)
	if err != nil {
		app.logger.Error(ctx, "sweep dashboard sessions", "error", err)
	}
	tokens, err := app.emailPasswordService.SweepExpiredResetTokens(ctx)
	if err != nil {
		app.logger.Error(ctx, "sweep password reset tokens", "error", err)
	}
	codes, err := app.passwordlessService.SweepExpiredCodes(ctx)
	if err != nil {
		app.logger.Error(ctx, "sweep passwordless codes", "error", err)
	}
	app.logger.Debug(ctx, "sweep finished",
		"sessions", sessions, "reset_tokens", tokens, "codes", codes)
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"backend", app.config.StorageBackend, "sweep_interval", app.config.SweepInterval)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSweeper(ctx)
	}()

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
