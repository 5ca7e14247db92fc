// Package eventbus fans typed events out to in-process subscribers.
package eventbus

import (
	"sync"
	"sync/atomic"
)

const defaultBuffer = 8

// Bus is a type-safe publish/subscribe bus. Publishing never blocks: an
// event is dropped for a subscriber whose buffer is full.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	buffer  int
	closed  bool
	dropped atomic.Uint64
}

// Option configures a Bus.
type Option func(*options)

type options struct{ buffer int }

// WithBuffer sets the per-subscriber channel capacity.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// New creates a Bus.
func New[T any](opts ...Option) *Bus[T] {
	o := options{buffer: defaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[T]{buffer: o.buffer}
}

// Publish sends e to every subscriber with room for it.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber. The channel is closed by Unsubscribe or
// Close; subscribing to a closed bus yields a closed channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Subscribers returns the number of live subscribers.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (b *Bus[T]) Dropped() uint64 { return b.dropped.Load() }

// Close closes the bus and all subscriber channels.
func (b *Bus[T]) Close() {
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
