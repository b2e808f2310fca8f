// Package bootstrap is the composition root: it is the single place where
// concrete adapters are instantiated and wired into the core's ports.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/roster-app/roster/app"
	"github.com/roster-app/roster/config"
	"github.com/roster-app/roster/core"
	"github.com/roster-app/roster/eventbus"
	"github.com/roster-app/roster/sqlite"
	"github.com/roster-app/roster/users"
	"gopkg.in/natefinch/lumberjack.v2"
)

// App is the assembled application core, ready for a UI shell to consume.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sqlite.DB
	Bus    core.EventBus

	UserRepository core.UserRepository
	UserService    core.UserService

	CreateUser  *app.CreateUserHandler
	UpdateUser  *app.UpdateUserHandler
	DeleteUser  *app.DeleteUserHandler
	GetUserByID *app.GetUserByIDHandler
	GetUsers    *app.GetUsersHandler

	sentryEnabled bool
}

// New wires all concrete adapters into a ready-to-use App.
// The database schema is initialised here, before any repository use.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		panic("You need to supply a config.Config value to bootstrap the application")
	}

	logger := createLogger(cfg)

	if cfg.Sentry.Enabled {
		initSentry(logger, cfg)
	}

	db, err := sqlite.NewDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("cannot initialize database schema: %w", err)
	}

	var bus core.EventBus
	if cfg.Events.Enabled {
		bus = eventbus.NewInMemoryBus(logger)
	} else {
		bus = eventbus.NewNoopBus()
	}

	repository := sqlite.NewUserRepository(db)
	service := users.NewService(repository, bus, logger)

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Bus:            bus,
		UserRepository: repository,
		UserService:    service,
		CreateUser:     app.NewCreateUserHandler(service),
		UpdateUser:     app.NewUpdateUserHandler(service),
		DeleteUser:     app.NewDeleteUserHandler(service),
		GetUserByID:    app.NewGetUserByIDHandler(service),
		GetUsers:       app.NewGetUsersHandler(service),
		sentryEnabled:  cfg.Sentry.Enabled,
	}, nil
}

// Close releases everything the bootstrap opened.
func (a *App) Close(ctx context.Context) error {
	if a.sentryEnabled {
		sentry.Flush(2 * time.Second) //nolint:mnd
	}
	a.Bus.Clear()
	return a.DB.Close()
}

func createLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if len(cfg.Log.File) > 0 {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	var logger *slog.Logger
	switch cfg.Log.Format {
	case config.LogFormatJSON:
		logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     cfg.Log.Level.ToSlog(),
			AddSource: cfg.Log.Verbose && cfg.App.Debug,
		}))
	default:
		logger = slog.New(tint.NewHandler(out, &tint.Options{
			Level:     cfg.Log.Level.ToSlog(),
			AddSource: cfg.Log.Verbose && cfg.App.Debug,
			NoColor:   len(cfg.Log.File) > 0,
		}))
	}
	slog.SetDefault(logger)
	return logger
}

func initSentry(logger *slog.Logger, cfg *config.Config) {
	logger.Debug("Trying to initialise Sentry")
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:        cfg.Sentry.DSN,
		Debug:      cfg.App.Debug,
		SampleRate: cfg.Sentry.SampleRate,
		Release:    cfg.App.Version,
	}); err != nil {
		logger.Error("Cannot initialise Sentry", "error", err)
	}
}
