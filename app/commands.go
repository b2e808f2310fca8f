// Package app contains the command and query handlers that sit between the
// transport-facing request shapes and the typed domain service calls. Every
// handler pairs one request shape with exactly one service call and passes the
// result or error through unchanged.
package app

import (
	"context"
	"errors"

	"github.com/roster-app/roster/core"
)

// CreateUserCommand is the raw create request as the UI shell sends it.
type CreateUserCommand struct {
	Name  string
	Email string
	Role  string
}

type CreateUserHandler struct {
	service core.UserService
}

func NewCreateUserHandler(service core.UserService) *CreateUserHandler {
	return &CreateUserHandler{service}
}

func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (core.UserID, error) {
	email, err := core.ParseEmailAddress(cmd.Email)
	if err != nil {
		return 0, err
	}
	return h.service.CreateUser(ctx, core.NewUser{
		Name:  cmd.Name,
		Email: email,
		Role:  core.ParseRole(cmd.Role),
	})
}

// UpdateUserCommand replaces every mutable field of an existing user.
type UpdateUserCommand struct {
	ID     int64
	Name   string
	Email  string
	Role   string
	Status string
}

type UpdateUserHandler struct {
	service core.UserService
}

func NewUpdateUserHandler(service core.UserService) *UpdateUserHandler {
	return &UpdateUserHandler{service}
}

func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) error {
	if cmd.ID <= 0 {
		return errors.Join(core.ErrInvalidInput, errors.New("update needs a positive user id"))
	}
	email, err := core.ParseEmailAddress(cmd.Email)
	if err != nil {
		return err
	}
	return h.service.UpdateUser(ctx, &core.User{
		ID:     core.UserID(cmd.ID),
		Name:   cmd.Name,
		Email:  email,
		Role:   core.ParseRole(cmd.Role),
		Status: core.ParseStatus(cmd.Status),
	})
}

// DeleteUserCommand removes one user by id.
type DeleteUserCommand struct {
	ID int64
}

type DeleteUserHandler struct {
	service core.UserService
}

func NewDeleteUserHandler(service core.UserService) *DeleteUserHandler {
	return &DeleteUserHandler{service}
}

func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	return h.service.DeleteUser(ctx, core.UserID(cmd.ID))
}
