package eventbus

import "github.com/roster-app/roster/core"

// NoopBus is the null-object implementation of core.EventBus.
// It is the default composition-root choice when eventing is disabled, so no
// call site ever needs to check whether a bus is present.
type NoopBus struct{}

var _ core.EventBus = NoopBus{}

func NewNoopBus() NoopBus {
	return NoopBus{}
}

// Publish implements core.EventBus.
func (NoopBus) Publish(core.Event) error { return nil }

// Subscribe implements core.EventBus. The handler is dropped on the floor.
func (NoopBus) Subscribe(string, core.EventHandler) string { return "" }

// Unsubscribe implements core.EventBus.
func (NoopBus) Unsubscribe(string) error { return core.ErrNotFound }

// Subscriptions implements core.EventBus.
func (NoopBus) Subscriptions() []core.Subscription { return nil }

// Metrics implements core.EventBus.
func (NoopBus) Metrics() core.BusMetrics { return core.BusMetrics{} }

// Clear implements core.EventBus.
func (NoopBus) Clear() {}
