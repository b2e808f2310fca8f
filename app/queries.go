package app

import (
	"context"

	"github.com/roster-app/roster/core"
)

// GetUserByIDQuery retrieves one user by id.
type GetUserByIDQuery struct {
	ID int64
}

type GetUserByIDHandler struct {
	service core.UserService
}

func NewGetUserByIDHandler(service core.UserService) *GetUserByIDHandler {
	return &GetUserByIDHandler{service}
}

func (h *GetUserByIDHandler) Handle(ctx context.Context, query GetUserByIDQuery) (*core.User, error) {
	return h.service.GetUser(ctx, core.UserID(query.ID))
}

// GetUsersQuery retrieves all users.
type GetUsersQuery struct{}

type GetUsersHandler struct {
	service core.UserService
}

func NewGetUsersHandler(service core.UserService) *GetUsersHandler {
	return &GetUsersHandler{service}
}

func (h *GetUsersHandler) Handle(ctx context.Context, _ GetUsersQuery) ([]core.User, error) {
	return h.service.GetAllUsers(ctx)
}
