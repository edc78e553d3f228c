package loop

import (
	"sync"
	"time"
)

// Host owns the active loop configuration and runs it once per frame.
//
// The mutex only keeps Current, Set and Tick individually consistent. A
// Current-then-Set sequence from another goroutine can still lose an
// interleaved Set; callers serialize those sequences themselves.
type Host struct {
	mu    sync.Mutex
	cfg   Configuration
	frame uint64
}

func NewHost(cfg Configuration) *Host {
	return &Host{cfg: cfg.Clone()}
}

// Current returns a private copy of the active configuration.
func (h *Host) Current() Configuration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.Clone()
}

// Set installs cfg as the active configuration. It takes effect on the next frame.
func (h *Host) Set(cfg Configuration) {
	cfg = cfg.Clone()
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
}

// Frame returns the number of completed Tick calls.
func (h *Host) Frame() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Tick runs every phase chain in order. Callbacks see the configuration as it
// was when the frame started, so hooks added mid-frame run from the next frame.
func (h *Host) Tick(dt time.Duration) {
	h.mu.Lock()
	snap := h.cfg.Clone()
	h.mu.Unlock()

	for _, e := range snap.Phases {
		e.Chain.Invoke(dt)
	}

	h.mu.Lock()
	h.frame++
	h.mu.Unlock()
}

// TickPhase runs only the chain of the first phase tagged p.
// Used for high-frequency input polling between full frames; it does not
// advance the frame counter.
func (h *Host) TickPhase(p Phase, dt time.Duration) {
	h.mu.Lock()
	i := h.cfg.Find(p)
	var chain Chain
	if i >= 0 {
		chain = h.cfg.Phases[i].Chain.clone()
	}
	h.mu.Unlock()

	chain.Invoke(dt)
}
