package system

import (
	"time"

	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/loop"
)

// EventDispatchSystem swaps the event bus buffers and delivers last frame's
// events. Phase PreUpdate.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Name() string      { return "event_dispatch" }
func (s *EventDispatchSystem) Phase() loop.Phase { return loop.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
