// ABOUTME: Typed event bus delivering events to subscribers in subscription order
// ABOUTME: Publishes are serialized so every handler observes events in arrival order

package eventbus

import "sync"

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscription[T any] struct {
	id      int
	handler Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers.
//
// Publish holds a delivery lock for the whole fan-out, so two concurrent
// publishers never interleave: the second event reaches a handler only after
// every handler has returned from the first. Handlers must not publish on
// the same bus.
type Bus[T any] struct {
	deliver sync.Mutex

	mu     sync.RWMutex
	subs   []subscription[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription[T]{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all registered handlers, synchronously and in
// subscription order. It returns once every handler has returned.
func (b *Bus[T]) Publish(event T) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.RLock()
	snapshot := make([]Handler[T], len(b.subs))
	for i, s := range b.subs {
		snapshot[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
