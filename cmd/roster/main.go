// Roster is a local-first user management application: a bundled web frontend
// served over a loopback bridge, backed by a sqlite database.
package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roster-app/roster/bootstrap"
	"github.com/roster-app/roster/config"
	"github.com/roster-app/roster/core"
	"github.com/roster-app/roster/server"
)

//go:embed config.toml
var configFS embed.FS

//go:embed frontend/dist
var frontendFS embed.FS

func main() {
	cfg, err := config.Load(configFS)
	if err != nil {
		slog.Error("Could not load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("Could not initialize application", "error", err)
		os.Exit(1)
	}

	logUserEvents(application)

	frontend, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		application.Logger.Error("Could not open the frontend bundle", "error", err)
		os.Exit(1)
	}

	bridge := server.New(cfg, server.Backend{
		CreateUser:  application.CreateUser,
		UpdateUser:  application.UpdateUser,
		DeleteUser:  application.DeleteUser,
		GetUserByID: application.GetUserByID,
		GetUsers:    application.GetUsers,
		Repository:  application.UserRepository,
		Bus:         application.Bus,
	}, frontend.(fs.ReadDirFS))

	if err := bridge.Listen(); err != nil {
		application.Logger.Error("Could not bind the bridge listener", "error", err)
		os.Exit(1)
	}

	if err := application.Bus.Publish(core.NewApplicationStarted(cfg.App.Name, cfg.App.Version)); err != nil {
		application.Logger.Error("Could not publish startup event", "error", err)
	}
	application.Logger.Info("Application started",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"url", bridge.URL(),
	)

	if err := bridge.Serve(ctx); err != nil {
		application.Logger.Error("Bridge stopped with an error", "error", err)
	}

	if err := application.Bus.Publish(core.NewApplicationShutdown(cfg.App.Name)); err != nil {
		application.Logger.Error("Could not publish shutdown event", "error", err)
	}
	application.Logger.Info("Application shutting down")

	if err := application.Close(context.Background()); err != nil {
		application.Logger.Error("Could not close the application cleanly", "error", err)
		os.Exit(1)
	}
}

// logUserEvents subscribes audit logging to the domain events. This is the
// kind of incidental side effect the bus exists to decouple from the domain
// service.
func logUserEvents(application *bootstrap.App) {
	for _, eventType := range []string{
		core.EventUserCreated,
		core.EventUserUpdated,
		core.EventUserDeleted,
	} {
		application.Bus.Subscribe(eventType, func(eventType string, payload map[string]any) {
			application.Logger.Info("Domain event", "event_type", eventType, "payload", payload)
		})
	}
}
