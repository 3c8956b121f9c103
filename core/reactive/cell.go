// Package reactive provides value containers with change notification and
// derived read-only values recomputed from their sources.
//
// The package is meant for a single logical event loop: all recomputation
// happens on the goroutine that triggered the change. Internal locking only
// exists so that timer callbacks may safely feed values in.
package reactive

import (
	"reflect"
	"sync"
)

// Source is anything a derived cell can depend on.
type Source interface {
	onChange(fn func()) (unsubscribe func())
}

type subscriber[T any] struct {
	fn func(T)
}

// Cell holds a mutable value and notifies subscribers when it changes.
// Setting a value equal to the current one is a no-op: subscribers are
// only ever notified of distinct values.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	subs  []*subscriber[T]
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value. It never blocks on pending notifications.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and schedules a notification, unless the new value
// equals the current one.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	if reflect.DeepEqual(c.value, v) {
		c.mu.Unlock()
		return
	}
	c.value = v
	c.mu.Unlock()

	sched.submit(c, c.notify)
}

// Subscribe registers fn to be called with the new value after every accepted
// Set. Subscribers are notified in subscription order. The returned func
// deregisters the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	sub := &subscriber[T]{fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s == sub {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Cell[T]) notify() {
	c.mu.Lock()
	v := c.value
	subs := make([]*subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (c *Cell[T]) onChange(fn func()) func() {
	return c.Subscribe(func(T) { fn() })
}
