// Package users contains the domain service that enforces user invariants
// before any repository mutation and publishes domain events after successful
// writes.
package users

import (
	"context"
	"log/slog"

	"github.com/roster-app/roster/core"
)

type Service struct {
	repository core.UserRepository
	bus        core.EventBus
	logger     *slog.Logger
}

// Force struct to implement the core interface
var _ core.UserService = &Service{}

func NewService(repository core.UserRepository, bus core.EventBus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repository: repository,
		bus:        bus,
		logger:     logger,
	}
}

// GetAllUsers implements core.UserService.
func (s *Service) GetAllUsers(ctx context.Context) ([]core.User, error) {
	return s.repository.ListUsers(ctx)
}

// GetUser implements core.UserService.
func (s *Service) GetUser(ctx context.Context, id core.UserID) (*core.User, error) {
	return s.repository.GetUser(ctx, id)
}

// CreateUser implements core.UserService.
// The creation data is validated by constructing a transient user first; only
// valid data ever reaches the repository.
func (s *Service) CreateUser(ctx context.Context, data core.NewUser) (core.UserID, error) {
	if _, err := core.CreateUser(data); err != nil {
		return 0, err
	}

	id, err := s.repository.CreateUser(ctx, data)
	if err != nil {
		return 0, err
	}

	s.publish(core.NewUserCreated(id, data.Name, data.Email))
	return id, nil
}

// UpdateUser implements core.UserService.
func (s *Service) UpdateUser(ctx context.Context, user *core.User) error {
	if user == nil || user.Email == nil || len(user.Name) == 0 {
		return core.ErrInvalidInput
	}

	if err := s.repository.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.publish(core.NewUserUpdated(user))
	return nil
}

// DeleteUser implements core.UserService.
func (s *Service) DeleteUser(ctx context.Context, id core.UserID) error {
	if err := s.repository.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.publish(core.NewUserDeleted(id))
	return nil
}

// publish hands the event to the bus. The write already succeeded at this
// point, so a publish failure is logged and never propagated to the caller.
func (s *Service) publish(event core.Event) {
	if err := s.bus.Publish(event); err != nil {
		s.logger.Error("Cannot publish domain event",
			"event_type", event.EventType(),
			"aggregate_id", event.AggregateID(),
			"error", err,
		)
	}
}
