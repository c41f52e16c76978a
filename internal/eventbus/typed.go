// Package eventbus implements an in-process publish/subscribe bus used to
// notify renderers about workflow state changes.
package eventbus

import "sync"

const defaultBuffer = 8

// TypedBus is a type-safe publish/subscribe bus for events of type T. It
// remembers the last published event so late subscribers start from the
// current state.
type TypedBus[T any] struct {
	mu      sync.Mutex
	subs    []chan T
	closed  bool
	last    T
	hasLast bool
}

// NewTyped creates a new TypedBus.
func NewTyped[T any]() *TypedBus[T] { return &TypedBus[T]{} }

// Publish records e as the latest event and sends it to all subscribers.
// Delivery is non-blocking: a subscriber whose buffer is full misses the
// event, and later subscribers still start from it.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last, b.hasLast = e, true
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel. If an event was
// already published it is delivered first.
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, defaultBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	if b.hasLast {
		ch <- b.last
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
