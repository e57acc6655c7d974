package events

import (
	"sync"
	"sync/atomic"
)

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

// Bus is a fire-and-forget fan-out of combat events.
// A nil *Bus is valid and drops everything, so components built without one stay silent.
type Bus struct {
	mu       sync.RWMutex
	handlers map[uint64]Handler
	order    []uint64
	nextID   uint64
	tick     atomic.Uint64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns a function that removes it
func (b *Bus) Subscribe(h Handler) func() {
	if b == nil || h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			for i, oid := range b.order {
				if oid == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every handler in subscription order
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Emit builds an event stamped with the current tick and publishes it
func (b *Bus) Emit(eventType EventType, entityID string, payload interface{}) {
	if b == nil {
		return
	}
	b.Publish(NewEvent(eventType, b.tick.Load(), entityID, payload))
}

// SetTick records the simulation step used to stamp emitted events
func (b *Bus) SetTick(tick uint64) {
	if b == nil {
		return
	}
	b.tick.Store(tick)
}

// Tick returns the current simulation step
func (b *Bus) Tick() uint64 {
	if b == nil {
		return 0
	}
	return b.tick.Load()
}

// Recorder collects events in memory. Tests and the API's recent-event feed use it.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRecorder keeps at most limit events (0 = unbounded)
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Handle implements Handler
func (r *Recorder) Handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events matching t
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many events of type t were recorded
func (r *Recorder) Count(t EventType) int {
	return len(r.OfType(t))
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
