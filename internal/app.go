package internal

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"devconnect/internal/config"
	"devconnect/internal/database"
	internalhttp "devconnect/internal/http"
	"devconnect/internal/jobs"
)

// Application bundles the HTTP server, the database manager, and the
// background job scheduler.
type Application struct {
	Fiber     *fiber.App
	DBManager *database.DBManager
	Config    *config.Config
	Logger    *slog.Logger
	Scheduler *jobs.Scheduler
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	// Create logger
	logger := cartridge.NewLogger(cfg, nil)

	// Initialize database manager
	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsTest(),
	})

	api := internalhttp.NewAPI(dbManager.GetConnection(), cfg, logger)
	MountAppRoutes(fiberApp, api, cfg, logger)

	return &Application{
		Fiber:     fiberApp,
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
		Scheduler: jobs.NewScheduler(dbManager, logger, cfg),
	}, nil
}

// StartAsync begins serving in a background goroutine and starts the
// background jobs.
func (a *Application) StartAsync() error {
	a.Scheduler.Start()
	go func() {
		addr := ":" + a.Config.GetPort()
		if err := a.Fiber.Listen(addr); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()
	return nil
}

// Shutdown stops the HTTP server and closes the database within the context deadline.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()

	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if db := a.DBManager.GetConnection(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
