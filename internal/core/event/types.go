package event

import (
	"time"

	"github.com/l1jgo/loophook/internal/core/loop"
)

// HookAdded is emitted after a callback was appended to a phase chain.
type HookAdded struct {
	Phase loop.Phase
	Name  string
	At    time.Time
}

// HookRemoved is emitted after a callback was dropped from a phase chain.
type HookRemoved struct {
	Phase loop.Phase
	Name  string
	At    time.Time
}

// FrameCompleted carries the timing of one finished frame.
type FrameCompleted struct {
	Frame    uint64
	Duration time.Duration
}
