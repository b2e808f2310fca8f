package core

import "time"

// Event type tags. Subscriptions match on the exact tag string.
const (
	EventUserCreated         = "user.created"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventApplicationStarted  = "application.started"
	EventApplicationShutdown = "application.shutdown"
)

// Event is an immutable record of a state change.
type Event interface {
	// EventType returns the stable type tag for this event.
	EventType() string
	// OccurredAt returns the UTC timestamp at which the event happened.
	OccurredAt() time.Time
	// AggregateID returns the string form of the id of the subject entity.
	AggregateID() string
	// Payload returns the structured data describing the change.
	Payload() map[string]any
}

// EventHandler is invoked with the type tag and payload of every published
// event its subscription matches.
type EventHandler func(eventType string, payload map[string]any)

// Subscription binds one handler to one event-type tag.
// The id is assigned by the bus and is the only way to unsubscribe.
type Subscription struct {
	ID        string
	EventType string
}

// BusMetrics are process-lifetime counters for one bus instance.
// They only reset on Clear.
type BusMetrics struct {
	EventsPublished int64
	EventsHandled   int64
	EventsFailed    int64
	LastEventType   string
}

// EventBus is the publish/subscribe port for domain events.
// Delivery is synchronous, in-process and fire-and-forget: a failing handler
// never propagates an error to the publisher.
type EventBus interface {
	// Publish delivers the event to all handlers subscribed to its type tag,
	// in subscription order.
	Publish(event Event) error
	// Subscribe registers a handler for an exact event-type tag and returns
	// the subscription id.
	Subscribe(eventType string, handler EventHandler) string
	// Unsubscribe removes the subscription with the specified id or returns
	// ErrNotFound if no such subscription exists.
	Unsubscribe(id string) error
	// Subscriptions returns all active subscriptions.
	Subscriptions() []Subscription
	// Metrics returns a snapshot of the bus counters.
	Metrics() BusMetrics
	// Clear atomically drops all subscriptions and resets the metrics.
	Clear()
}

type UserCreated struct {
	UserID     UserID
	Name       string
	Email      string
	occurredAt time.Time
}

// NewUserCreated records that the user with the specified data was persisted.
func NewUserCreated(id UserID, name string, email EmailAddress) UserCreated {
	return UserCreated{
		UserID:     id,
		Name:       name,
		Email:      email.String(),
		occurredAt: time.Now().UTC(),
	}
}

func (e UserCreated) EventType() string     { return EventUserCreated }
func (e UserCreated) OccurredAt() time.Time { return e.occurredAt }
func (e UserCreated) AggregateID() string   { return e.UserID.String() }
func (e UserCreated) Payload() map[string]any {
	return map[string]any{
		"user_id": int64(e.UserID),
		"name":    e.Name,
		"email":   e.Email,
	}
}

type UserUpdated struct {
	UserID     UserID
	Name       string
	Email      string
	Role       Role
	Status     Status
	occurredAt time.Time
}

// NewUserUpdated records that all stored fields of a user were replaced.
func NewUserUpdated(user *User) UserUpdated {
	return UserUpdated{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email.String(),
		Role:       user.Role,
		Status:     user.Status,
		occurredAt: time.Now().UTC(),
	}
}

func (e UserUpdated) EventType() string     { return EventUserUpdated }
func (e UserUpdated) OccurredAt() time.Time { return e.occurredAt }
func (e UserUpdated) AggregateID() string   { return e.UserID.String() }
func (e UserUpdated) Payload() map[string]any {
	return map[string]any{
		"user_id": int64(e.UserID),
		"name":    e.Name,
		"email":   e.Email,
		"role":    e.Role.String(),
		"status":  e.Status.String(),
	}
}

type UserDeleted struct {
	UserID     UserID
	occurredAt time.Time
}

// NewUserDeleted records that the user with the specified id was deleted.
func NewUserDeleted(id UserID) UserDeleted {
	return UserDeleted{UserID: id, occurredAt: time.Now().UTC()}
}

func (e UserDeleted) EventType() string     { return EventUserDeleted }
func (e UserDeleted) OccurredAt() time.Time { return e.occurredAt }
func (e UserDeleted) AggregateID() string   { return e.UserID.String() }
func (e UserDeleted) Payload() map[string]any {
	return map[string]any{"user_id": int64(e.UserID)}
}

type ApplicationStarted struct {
	Name       string
	Version    string
	occurredAt time.Time
}

// NewApplicationStarted records that the application finished bootstrapping.
func NewApplicationStarted(name, version string) ApplicationStarted {
	return ApplicationStarted{Name: name, Version: version, occurredAt: time.Now().UTC()}
}

func (e ApplicationStarted) EventType() string     { return EventApplicationStarted }
func (e ApplicationStarted) OccurredAt() time.Time { return e.occurredAt }
func (e ApplicationStarted) AggregateID() string   { return e.Name }
func (e ApplicationStarted) Payload() map[string]any {
	return map[string]any{"name": e.Name, "version": e.Version}
}

type ApplicationShutdown struct {
	Name       string
	occurredAt time.Time
}

// NewApplicationShutdown records that the application is shutting down.
func NewApplicationShutdown(name string) ApplicationShutdown {
	return ApplicationShutdown{Name: name, occurredAt: time.Now().UTC()}
}

func (e ApplicationShutdown) EventType() string     { return EventApplicationShutdown }
func (e ApplicationShutdown) OccurredAt() time.Time { return e.occurredAt }
func (e ApplicationShutdown) AggregateID() string   { return e.Name }
func (e ApplicationShutdown) Payload() map[string]any {
	return map[string]any{"name": e.Name}
}
