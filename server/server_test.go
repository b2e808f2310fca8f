package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roster-app/roster/app"
	"github.com/roster-app/roster/config"
	"github.com/roster-app/roster/core"
	"github.com/roster-app/roster/eventbus"
	"github.com/roster-app/roster/server"
	"github.com/roster-app/roster/sqlite"
	"github.com/roster-app/roster/tests"
	"github.com/roster-app/roster/users"
	"github.com/stretchr/testify/assert"
)

func newBridge(t *testing.T) http.Handler {
	t.Helper()
	bus := eventbus.NewInMemoryBus(nil)
	repository := sqlite.NewUserRepository(tests.DB(t))
	service := users.NewService(repository, bus, nil)
	cfg := &config.Config{}
	cfg.App.Name = "roster-test"
	cfg.App.Version = "0.0.0-test"
	cfg.Log.Level = config.LogLevelError

	bridge := server.New(cfg, server.Backend{
		CreateUser:  app.NewCreateUserHandler(service),
		UpdateUser:  app.NewUpdateUserHandler(service),
		DeleteUser:  app.NewDeleteUserHandler(service),
		GetUserByID: app.NewGetUserByIDHandler(service),
		GetUsers:    app.NewGetUsersHandler(service),
		Repository:  repository,
		Bus:         bus,
	}, nil)
	return bridge.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		tests.Check(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope map[string]any
	tests.Check(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestBridge(t *testing.T) {
	t.Run("ok: create, get, list, delete round-trip", func(t *testing.T) {
		handler := newBridge(t)

		rec, envelope := doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "Ada Lovelace",
			"email": "ada@example.com",
			"role":  "Admin",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, envelope["success"])
		id := int64(envelope["data"].(map[string]any)["id"].(float64))

		rec, envelope = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "Ada Lovelace", data["name"])
		assert.Equal(t, "ada@example.com", data["email"])
		assert.Equal(t, "Admin", data["role"])
		assert.Equal(t, "Active", data["status"])

		rec, envelope = doJSON(t, handler, http.MethodGet, "/api/users", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, envelope["data"], 1)

		rec, _ = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ok: update replaces the stored fields", func(t *testing.T) {
		handler := newBridge(t)

		_, envelope := doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "Before",
			"email": "before@example.com",
		})
		id := int64(envelope["data"].(map[string]any)["id"].(float64))

		rec, _ := doJSON(t, handler, http.MethodPut, fmt.Sprintf("/api/users/%d", id), map[string]string{
			"name":   "After",
			"email":  "after@example.com",
			"role":   "Guest",
			"status": "Suspended",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		_, envelope = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "After", data["name"])
		assert.Equal(t, "Suspended", data["status"])
	})

	t.Run("err: status code mapping", func(t *testing.T) {
		handler := newBridge(t)

		// invalid input -> 400
		rec, envelope := doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "No Email",
			"email": "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, envelope["success"])

		// missing entity -> 404
		rec, _ = doJSON(t, handler, http.MethodGet, "/api/users/424242", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// malformed id -> 400
		rec, _ = doJSON(t, handler, http.MethodGet, "/api/users/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		// duplicate email -> 409
		_, _ = doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "First",
			"email": "dup@example.com",
		})
		rec, _ = doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "Second",
			"email": "dup@example.com",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ok: system info reports user count and bus metrics", func(t *testing.T) {
		handler := newBridge(t)

		_, _ = doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
			"name":  "Counted",
			"email": "counted@example.com",
		})

		rec, envelope := doJSON(t, handler, http.MethodGet, "/api/system", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "roster-test", data["app"].(map[string]any)["name"])
		assert.Equal(t, float64(1), data["users"].(map[string]any)["count"])
		events := data["events"].(map[string]any)
		assert.Equal(t, float64(1), events["published"])
		assert.Equal(t, core.EventUserCreated, events["last_event_type"])
	})
}
