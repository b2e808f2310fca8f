package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type User struct {
	ID        UserID
	Name      string
	Email     EmailAddress
	Role      Role
	Status    Status
	CreatedAt time.Time
}

type (
	UserID int64
)

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserID parses a string into a user id.
func ParseUserID(id string) (UserID, error) {
	integerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse user id: %w", err)
	}
	if integerID < 0 {
		return 0, errors.New("cannot parse user id: user ids cannot be negative")
	}
	return UserID(integerID), nil
}

// Role is the closed set of roles a user can have.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
	RoleGuest Role = "Guest"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a string tag back to a Role.
// Unrecognized tags degrade to RoleUser rather than failing the read path.
func ParseRole(tag string) Role {
	switch tag {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleGuest):
		return RoleGuest
	default:
		return RoleUser
	}
}

// Status is the closed set of states a user account can be in.
type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusSuspended Status = "Suspended"
)

func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a string tag back to a Status.
// Unrecognized tags degrade to StatusActive rather than failing the read path.
func ParseStatus(tag string) Status {
	switch tag {
	case string(StatusInactive):
		return StatusInactive
	case string(StatusSuspended):
		return StatusSuspended
	default:
		return StatusActive
	}
}

// NewUser holds the data needed to create a new user.
// It carries no id and no timestamps, the repository assigns those.
type NewUser struct {
	Name  string
	Email EmailAddress
	Role  Role
}

// CreateUser builds a transient User from the specified creation data.
// New users start out as StatusActive with CreatedAt stamped in UTC.
// This performs no persistence.
func CreateUser(data NewUser) (*User, error) {
	if len(data.Name) == 0 {
		return nil, errors.Join(ErrInvalidInput, errors.New("user name cannot be empty"))
	}
	if data.Email == nil {
		return nil, errors.Join(ErrInvalidInput, ErrInvalidEmailAddress)
	}
	return &User{
		ID:        0,
		Name:      data.Name,
		Email:     data.Email,
		Role:      data.Role,
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UserRepository is the persistence port for the User aggregate.
type UserRepository interface {
	// Retrieve all existing users, ordered ascending by id.
	ListUsers(ctx context.Context) ([]User, error)
	// Retrieve the user with the specified id or ErrNotFound if no such user exists.
	GetUser(ctx context.Context, id UserID) (*User, error)
	// Persist a new user and return the id the storage assigned to it.
	// Returns ErrConflict if a user with the same e-mail address already exists.
	CreateUser(ctx context.Context, data NewUser) (UserID, error)
	// Replace all stored fields of the specified user or ErrNotFound if no such user exists.
	UpdateUser(ctx context.Context, user *User) error
	// Delete the user with the specified id or ErrNotFound if no such user exists.
	DeleteUser(ctx context.Context, id UserID) error
	// Retrieve the amount of existing users.
	CountUsers(ctx context.Context) (int64, error)
}

// UserService is the domain service port that enforces invariants before persistence.
type UserService interface {
	// Retrieve all existing users, ordered ascending by id.
	GetAllUsers(ctx context.Context) ([]User, error)
	// Retrieve the user with the specified id or ErrNotFound if no such user exists.
	GetUser(ctx context.Context, id UserID) (*User, error)
	// Validate the creation data, persist a new user and return its id.
	// Publishes a UserCreated event after a successful write.
	CreateUser(ctx context.Context, data NewUser) (UserID, error)
	// Replace the specified user. Publishes a UserUpdated event after a successful write.
	UpdateUser(ctx context.Context, user *User) error
	// Delete the user with the specified id or ErrNotFound if no such user exists.
	// Publishes a UserDeleted event after a successful write.
	DeleteUser(ctx context.Context, id UserID) error
}
