// Package server is the local bridge between the bundled web frontend and the
// application core. It binds the command/query handlers to JSON endpoints on a
// loopback listener and serves the embedded frontend bundle; it contains no
// business logic of its own.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/roster-app/roster/app"
	"github.com/roster-app/roster/config"
	"github.com/roster-app/roster/core"
	"github.com/vearutop/statigz"
)

// Backend bundles everything the bridge exposes to the frontend.
type Backend struct {
	CreateUser  *app.CreateUserHandler
	UpdateUser  *app.UpdateUserHandler
	DeleteUser  *app.DeleteUserHandler
	GetUserByID *app.GetUserByIDHandler
	GetUsers    *app.GetUsersHandler
	Repository  core.UserRepository
	Bus         core.EventBus
}

type Server struct {
	mux      *chi.Mux
	cfg      *config.Config
	backend  Backend
	listener net.Listener
	httpSrv  *http.Server
}

// New builds the bridge router. frontendFS holds the built frontend bundle
// under "dist/"; pass nil to run without a UI (api only).
func New(cfg *config.Config, backend Backend, frontendFS fs.ReadDirFS) *Server {
	server := &Server{
		mux:     chi.NewMux(),
		cfg:     cfg,
		backend: backend,
	}

	server.mux.Use(middleware.Recoverer)
	server.mux.Use(requestLogger(cfg))

	server.mux.Route("/api", func(r chi.Router) {
		r.Get("/users", server.handleGetUsers)
		r.Post("/users", server.handleCreateUser)
		r.Get("/users/{id}", server.handleGetUser)
		r.Put("/users/{id}", server.handleUpdateUser)
		r.Delete("/users/{id}", server.handleDeleteUser)
		r.Get("/system", server.handleSystemInfo)
	})

	if frontendFS != nil {
		server.mux.Handle("/*", statigz.FileServer(
			frontendFS,
			statigz.EncodeOnInit,
			statigz.FSPrefix("dist"),
		))
	}

	return server
}

func requestLogger(cfg *config.Config) func(http.Handler) http.Handler {
	logger := httplog.NewLogger(cfg.App.Name, httplog.Options{
		LogLevel: cfg.Log.Level.ToSlog(),
		JSON:     cfg.Log.Format == config.LogFormatJSON,
		Concise:  !cfg.Log.Verbose,
		Tags: map[string]string{
			"version": cfg.App.Version,
		},
		QuietDownRoutes: []string{
			"/",
			"/favicon.ico",
		},
		QuietDownPeriod: 10 * time.Second, //nolint:mnd
	})
	return httplog.RequestLogger(logger)
}

// Start binds the bridge to an ephemeral loopback port and serves until the
// context is cancelled. Callers that need the selected address before serving
// should call Listen, URL and Serve separately.
func (server *Server) Start(ctx context.Context) error {
	if err := server.Listen(); err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Listen binds the loopback listener without serving yet.
func (server *Server) Listen() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	server.listener = listener
	return nil
}

// URL returns the base url of the bridge. Only valid after Listen.
func (server *Server) URL() string {
	if server.listener == nil {
		return ""
	}
	return "http://" + server.listener.Addr().String()
}

// Serve blocks until the context is cancelled, then shuts down gracefully.
func (server *Server) Serve(ctx context.Context) error {
	server.httpSrv = &http.Server{
		Handler:           server.mux,
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.httpSrv.Serve(server.listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
		defer cancel()
		return server.httpSrv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router, used by the tests.
func (server *Server) Handler() http.Handler {
	return server.mux
}

func (server *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := server.backend.GetUsers.Handle(r.Context(), app.GetUsersQuery{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, success(convertUserList(users)))
}

func (server *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, errors.Join(core.ErrInvalidInput, err))
		return
	}
	user, err := server.backend.GetUserByID.Handle(r.Context(), app.GetUserByIDQuery{ID: int64(id)})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, success(convertUser(user)))
}

func (server *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, errors.Join(core.ErrInvalidInput, err))
		return
	}
	id, err := server.backend.CreateUser.Handle(r.Context(), app.CreateUserCommand{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, success(map[string]int64{"id": int64(id)}))
}

func (server *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, errors.Join(core.ErrInvalidInput, err))
		return
	}
	var req UpdateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, errors.Join(core.ErrInvalidInput, err))
		return
	}
	err = server.backend.UpdateUser.Handle(r.Context(), app.UpdateUserCommand{
		ID:     int64(id),
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, success(nil))
}

func (server *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, errors.Join(core.ErrInvalidInput, err))
		return
	}
	if err := server.backend.DeleteUser.Handle(r.Context(), app.DeleteUserCommand{ID: int64(id)}); err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, success(nil))
}

func (server *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	amount, err := server.backend.Repository.CountUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics := server.backend.Bus.Metrics()
	render.JSON(w, r, success(map[string]any{
		"app": map[string]string{
			"name":    server.cfg.App.Name,
			"version": server.cfg.App.Version,
		},
		"os": map[string]string{
			"platform": runtime.GOOS,
			"arch":     runtime.GOARCH,
		},
		"users": map[string]int64{
			"count": amount,
		},
		"events": map[string]any{
			"published":       metrics.EventsPublished,
			"handled":         metrics.EventsHandled,
			"failed":          metrics.EventsFailed,
			"last_event_type": metrics.LastEventType,
		},
	}))
}
