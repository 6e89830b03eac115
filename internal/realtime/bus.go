package realtime

import (
	"log/slog"
	"sync"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
)

// Listener receives published change events for one entity type.
type Listener func(domain.ChangeEvent)

// ListenerHandle identifies one bus subscription for later removal.
type ListenerHandle struct {
	entity domain.EntityType
	id     uint64
}

type busListener struct {
	id uint64
	fn Listener
}

// Bus is the in-process fan-out point between the change feed and the
// delivery layer. It holds no event history: a listener registered after an
// event was published never sees that event.
type Bus struct {
	mu      sync.RWMutex
	topics  map[domain.EntityType][]busListener
	nextID  uint64
	logger  *slog.Logger
}

// NewBus creates an empty event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		topics: make(map[domain.EntityType][]busListener),
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers a listener for one entity type and returns a handle
// for Unsubscribe. Listeners are invoked in registration order.
func (b *Bus) Subscribe(entity domain.EntityType, fn Listener) ListenerHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	handle := ListenerHandle{entity: entity, id: b.nextID}
	b.topics[entity] = append(b.topics[entity], busListener{id: handle.id, fn: fn})
	return handle
}

// Unsubscribe removes a listener. Calling it twice, or with a handle that was
// never issued, is a no-op.
func (b *Bus) Unsubscribe(handle ListenerHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	listeners := b.topics[handle.entity]
	for i, l := range listeners {
		if l.id == handle.id {
			b.topics[handle.entity] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// Publish synchronously delivers the event to every listener registered for
// its entity type. A panicking listener is isolated and logged; the
// remaining listeners still run.
func (b *Bus) Publish(ev domain.ChangeEvent) {
	b.mu.RLock()
	listeners := make([]busListener, len(b.topics[ev.EntityType]))
	copy(listeners, b.topics[ev.EntityType])
	b.mu.RUnlock()

	for _, l := range listeners {
		b.invoke(l, ev)
	}
}

func (b *Bus) invoke(l busListener, ev domain.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener panic during publish",
				"entity", ev.EntityType,
				"operation", ev.Operation,
				"panic", r,
			)
		}
	}()
	l.fn(ev)
}

// ListenerCount returns the number of listeners for an entity type.
func (b *Bus) ListenerCount(entity domain.EntityType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[entity])
}
