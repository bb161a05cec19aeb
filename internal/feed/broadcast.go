package feed

import (
	"sync"

	"github.com/rs/zerolog"
)

// Broadcaster fans events out to registered listeners in registration order.
// Each listener call is wrapped in a recover so one panicking subscriber
// cannot abort delivery to the rest.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	logger zerolog.Logger
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster[T any](logger zerolog.Logger) *Broadcaster[T] {
	return &Broadcaster[T]{logger: logger}
}

// Subscribe registers a listener and returns a handle that deregisters
// exactly that listener. Calling the handle more than once is harmless.
func (b *Broadcaster[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify delivers event to every listener in registration order.
func (b *Broadcaster[T]) Notify(event T) {
	b.mu.Lock()
	subs := make([]subscriber[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, event)
	}
}

func (b *Broadcaster[T]) deliver(s subscriber[T], event T) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error().
				Int("subscriber", s.id).
				Interface("panic", rec).
				Msg("subscriber panicked, skipping")
		}
	}()
	s.fn(event)
}

// Len returns the number of registered listeners.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
