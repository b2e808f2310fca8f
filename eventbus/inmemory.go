// Package eventbus contains the in-process adapters for the core EventBus port.
package eventbus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/roster-app/roster/core"
)

type registration struct {
	id      string
	handler core.EventHandler
}

// InMemoryBus is a synchronous, in-process implementation of core.EventBus.
// Handlers for one event type fire in subscription order. Delivery is
// fire-and-forget: a handler that panics is recovered, counted as failed and
// never stops delivery to the remaining handlers.
type InMemoryBus struct {
	mu       sync.Mutex
	handlers map[string][]registration
	metrics  core.BusMetrics
	logger   *slog.Logger
}

// Force struct to implement the core interface
var _ core.EventBus = &InMemoryBus{}

func NewInMemoryBus(logger *slog.Logger) *InMemoryBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryBus{
		handlers: make(map[string][]registration),
		logger:   logger,
	}
}

// Publish implements core.EventBus.
// The handler slice is snapshotted under the lock and invoked outside of it,
// so a subscriber added mid-publish may or may not see that publish.
func (bus *InMemoryBus) Publish(event core.Event) error {
	eventType := event.EventType()
	payload := event.Payload()

	bus.mu.Lock()
	snapshot := make([]registration, len(bus.handlers[eventType]))
	copy(snapshot, bus.handlers[eventType])
	bus.metrics.EventsPublished++
	bus.metrics.LastEventType = eventType
	bus.mu.Unlock()

	bus.logger.Debug("Publishing event",
		"event_type", eventType,
		"aggregate_id", event.AggregateID(),
		"subscribers", len(snapshot),
	)

	for _, reg := range snapshot {
		bus.invoke(reg, eventType, payload)
	}
	return nil
}

func (bus *InMemoryBus) invoke(reg registration, eventType string, payload map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			bus.mu.Lock()
			bus.metrics.EventsFailed++
			bus.mu.Unlock()
			bus.logger.Error("Event handler panicked",
				"event_type", eventType,
				"subscription_id", reg.id,
				"panic", r,
			)
		}
	}()
	reg.handler(eventType, payload)
	bus.mu.Lock()
	bus.metrics.EventsHandled++
	bus.mu.Unlock()
}

// Subscribe implements core.EventBus.
func (bus *InMemoryBus) Subscribe(eventType string, handler core.EventHandler) string {
	id := uuid.NewString()

	bus.mu.Lock()
	bus.handlers[eventType] = append(bus.handlers[eventType], registration{id, handler})
	bus.mu.Unlock()

	bus.logger.Info("Subscribed handler to event", "event_type", eventType, "subscription_id", id)
	return id
}

// Unsubscribe implements core.EventBus.
func (bus *InMemoryBus) Unsubscribe(id string) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, regs := range bus.handlers {
		for i, reg := range regs {
			if reg.id == id {
				bus.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
				bus.logger.Info("Unsubscribed handler from event",
					"event_type", eventType,
					"subscription_id", id,
				)
				return nil
			}
		}
	}
	return core.ErrNotFound
}

// Subscriptions implements core.EventBus.
func (bus *InMemoryBus) Subscriptions() []core.Subscription {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	subscriptions := []core.Subscription{}
	for eventType, regs := range bus.handlers {
		for _, reg := range regs {
			subscriptions = append(subscriptions, core.Subscription{
				ID:        reg.id,
				EventType: eventType,
			})
		}
	}
	return subscriptions
}

// Metrics implements core.EventBus.
func (bus *InMemoryBus) Metrics() core.BusMetrics {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.metrics
}

// Clear implements core.EventBus.
func (bus *InMemoryBus) Clear() {
	bus.mu.Lock()
	bus.handlers = make(map[string][]registration)
	bus.metrics = core.BusMetrics{}
	bus.mu.Unlock()

	bus.logger.Info("Event bus cleared")
}
