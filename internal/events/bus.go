package events

import (
	"log/slog"
	"sync"

	"pharmatrace/internal/platform/metrics"
)

// Handler receives one event. Handlers run synchronously on the publisher's
// goroutine, in subscription order; a panicking handler is recovered and
// logged so remaining handlers and the publisher are unaffected.
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription is the handle returned by Subscribe. Cancel removes the
// handler; cancelling twice is harmless.
type Subscription struct {
	bus  *Bus
	typ  Type
	id   uint64
	once sync.Once
}

// Cancel unsubscribes the handler. A publish that already snapshotted this
// subscriber still invokes it once.
func (s *Subscription) Cancel() {
	s.once.Do(func() { s.bus.remove(s.typ, s.id) })
}

// Bus is a minimal in-process publish/subscribe registry keyed by event type.
//
// The single mutex guards only the registry (subscribe, unsubscribe, and the
// snapshot taken at the start of a publish). Handler execution happens outside
// the lock, so a slow handler delays only the publish that invoked it, never
// registry mutations made by unrelated code.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Type][]subscriber

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for swallowed handler panics.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics counts published and dropped events.
func WithMetrics(m *metrics.Metrics) BusOption {
	return func(b *Bus) { b.metrics = m }
}

// NewBus constructs an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:   make(map[Type][]subscriber),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for one event type and returns its handle.
func (b *Bus) Subscribe(typ Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[typ] = append(b.subs[typ], subscriber{id: b.nextID, handler: handler})
	return &Subscription{bus: b, typ: typ, id: b.nextID}
}

func (b *Bus) remove(typ Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[typ]
	kept := list[:0]
	for _, s := range list {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, typ)
		return
	}
	b.subs[typ] = kept
}

// Publish delivers the event to every handler registered for its type at the
// moment of the call. The subscriber list is snapshotted under the registry
// lock before any handler runs, so handlers added concurrently do not see this
// event, and handlers removed concurrently still run if already snapshotted.
//
// Publish blocks until every snapshotted handler has returned. Failures are
// isolated per handler and never reported to the publisher.
func (b *Bus) Publish(event Event) {
	if event == nil {
		return
	}

	b.mu.Lock()
	list := b.subs[event.EventType()]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	if len(snapshot) == 0 {
		if b.metrics != nil {
			b.metrics.EventsDropped.Inc()
		}
		return
	}

	for _, s := range snapshot {
		b.invoke(s, event)
	}
	if b.metrics != nil {
		b.metrics.EventsPublished.Inc()
	}
}

func (b *Bus) invoke(s subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_type", string(event.EventType()),
				"panic", r,
			)
		}
	}()
	s.handler(event)
}
