package server

import (
	"time"

	"github.com/roster-app/roster/core"
)

// UserDTO is the wire shape of a user as the frontend consumes it.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func convertUser(user *core.User) UserDTO {
	return UserDTO{
		ID:        int64(user.ID),
		Name:      user.Name,
		Email:     user.Email.String(),
		Role:      user.Role.String(),
		Status:    user.Status.String(),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func convertUserList(users []core.User) []UserDTO {
	list := make([]UserDTO, len(users))
	for i := range users {
		list[i] = convertUser(&users[i])
	}
	return list
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Response is the JSON envelope every api endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(data any) Response {
	return Response{Success: true, Data: data}
}

func failure(message string) Response {
	return Response{Success: false, Error: message}
}
