package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/waypointhq/console/internal/console/http"
	"github.com/waypointhq/console/internal/console/identity/localidp"
	"github.com/waypointhq/console/internal/console/obs"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/internal/console/store/drivers/sqlite"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/jwtx"
	"github.com/waypointhq/console/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the console service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keys     *jwtx.EdDSAKeyPair
	provider *localidp.Provider

	// Services
	inviteService       *service.InviteService
	registrationService *service.RegistrationService
	approvalService     *service.ApprovalService
	gateService         *service.AccessGateService
	emailChangeService  *service.EmailChangeService
	profileService      *service.ProfileService
	directoryService    *service.DirectoryService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "console",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Session signing key is ephemeral; a restart invalidates sessions.
	keys, err := jwtx.NewEphemeralEdDSA("console-session", app.cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session signing key: %w", err)
	}
	app.keys = keys

	obs.Init()

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("console starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down console...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("console stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes the identity provider and all business services
func (app *Application) initServices() {
	app.provider = localidp.New(app.db,
		localidp.WithSessionTTL(app.cfg.SessionTTL),
		localidp.WithVerificationTTL(app.cfg.VerificationTTL),
	)

	app.inviteService = &service.InviteService{
		Store: app.db,
		TTL:   app.cfg.InviteTTL,
	}
	app.registrationService = &service.RegistrationService{
		Store:    app.db,
		Invites:  app.inviteService,
		Provider: app.provider,
	}
	app.approvalService = &service.ApprovalService{Store: app.db}
	app.gateService = &service.AccessGateService{
		Store:      app.db,
		Provider:   app.provider,
		Signer:     app.keys,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.emailChangeService = &service.EmailChangeService{
		Store:    app.db,
		Provider: app.provider,
	}
	app.profileService = &service.ProfileService{
		Store:    app.db,
		Provider: app.provider,
	}
	app.directoryService = &service.DirectoryService{
		Store:    app.db,
		Provider: app.provider,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.EmailIntentTTL,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.keys,
		app.cfg.BaseURL,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.GateService = app.gateService
	router.RegistrationService = app.registrationService
	router.InviteService = app.inviteService
	router.ApprovalService = app.approvalService
	router.EmailChangeService = app.emailChangeService
	router.ProfileService = app.profileService
	router.DirectoryService = app.directoryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
