package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/roster-app/roster/core"
)

// writeError maps a core error kind onto a status code and JSON envelope.
// This is the only place the bridge inspects error kinds; it never invents new
// ones.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Bridge error", "path", r.URL.Path, "error", err)
	code, msg := func() (int, string) {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			return http.StatusBadRequest, "invalid input"
		case errors.Is(err, core.ErrNotFound):
			return http.StatusNotFound, "not found"
		case errors.Is(err, core.ErrConflict):
			return http.StatusConflict, "already exists"
		}
		return http.StatusInternalServerError, "internal error"
	}()
	render.Status(r, code)
	render.JSON(w, r, failure(msg))
}
