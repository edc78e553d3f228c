package event

import (
	"reflect"
	"sync"
)

type queued struct {
	t  reflect.Type
	ev any
}

// Bus is a double-buffered event bus. Events emitted in frame N are readable
// in frame N+1, in emit order across all types. SwapBuffers() is called at
// frame start by EventDispatchSystem.
type Bus struct {
	mu       sync.Mutex // guards handler registration and the back buffer
	front    []queued
	back     []queued
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 64),
		back:     make([]queued, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer (will be readable next frame).
func Emit[T any](b *Bus, ev T) {
	t := typeKey[T]()
	b.mu.Lock()
	b.back = append(b.back, queued{t: t, ev: ev})
	b.mu.Unlock()
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := typeKey[T]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers
// in the order they were emitted. Handlers may Emit; those events land in the
// back buffer for the next frame.
func (b *Bus) DispatchAll() {
	b.mu.Lock()
	events := b.front
	handlers := make([][]func(any), len(events))
	for i, q := range events {
		handlers[i] = b.handlers[q.t]
	}
	b.mu.Unlock()

	for i, q := range events {
		for _, h := range handlers[i] {
			h(q.ev)
		}
	}
}
