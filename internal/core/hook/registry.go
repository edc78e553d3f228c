// Package hook adds and removes callbacks in one phase of a host loop.
//
// Every call fetches the host's whole configuration, patches the chain of the
// first phase whose tag matches, and writes the configuration back. Nothing
// is cached between calls. The sequence is not atomic: a Set by another
// goroutine between the fetch and the write-back is overwritten. Use the
// registry from the loop goroutine only, or serialize calls externally.
//
// A phase that is not present in the configuration is not an error. Add and
// Remove then leave every chain untouched and return normally; the miss is
// only visible as a debug log line.
package hook

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/loop"
)

// Host is the getter/setter pair the registry needs from the loop owner.
type Host interface {
	Current() loop.Configuration
	Set(cfg loop.Configuration)
}

// Registry mutates phase chains of a Host.
type Registry struct {
	host Host
	log  *zap.Logger
	bus  *event.Bus
}

// NewRegistry returns a registry bound to host. bus may be nil.
func NewRegistry(host Host, log *zap.Logger, bus *event.Bus) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{host: host, log: log, bus: bus}
}

// Add appends cb to the chain of phase. Adding the same cb twice makes it run
// twice per frame.
func (r *Registry) Add(phase loop.Phase, cb *loop.Update) {
	cfg := r.host.Current()
	i := cfg.Find(phase)
	if i < 0 {
		r.log.Debug("hook add: phase not in loop", zap.Stringer("phase", phase), zap.String("hook", nameOf(cb)))
	} else {
		cfg.Phases[i].Chain.Append(cb)
	}
	r.host.Set(cfg)

	if i >= 0 && cb != nil && r.bus != nil {
		event.Emit(r.bus, event.HookAdded{Phase: phase, Name: cb.Name, At: time.Now()})
	}
}

// Remove drops one occurrence of cb from the chain of phase.
func (r *Registry) Remove(phase loop.Phase, cb *loop.Update) {
	cfg := r.host.Current()
	i := cfg.Find(phase)
	removed := false
	if i < 0 {
		r.log.Debug("hook remove: phase not in loop", zap.Stringer("phase", phase), zap.String("hook", nameOf(cb)))
	} else {
		removed = cfg.Phases[i].Chain.Remove(cb)
	}
	r.host.Set(cfg)

	if removed && r.bus != nil {
		event.Emit(r.bus, event.HookRemoved{Phase: phase, Name: cb.Name, At: time.Now()})
	}
}

func nameOf(cb *loop.Update) string {
	if cb == nil {
		return "<nil>"
	}
	return cb.Name
}
