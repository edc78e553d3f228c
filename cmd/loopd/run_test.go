package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/hook"
	"github.com/l1jgo/loophook/internal/core/loop"
	"github.com/l1jgo/loophook/internal/persist"
	"github.com/l1jgo/loophook/internal/scripting"
	"github.com/l1jgo/loophook/internal/system"
)

type memJournal struct {
	entries []persist.JournalEntry
}

func (m *memJournal) Write(_ context.Context, entries []persist.JournalEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func TestStopLoop_JournalsLuaUnhooks(t *testing.T) {
	host := loop.NewHost(loop.NewConfiguration(loop.DefaultPhases()...))
	bus := event.NewBus()
	reg := hook.NewRegistry(host, nil, bus)
	systems := hook.NewSystems(reg)
	w := &memJournal{}
	js := system.NewJournalSystem(bus, w, 1, nil)
	systems.Register(system.NewEventDispatchSystem(bus))
	systems.Register(js)

	engine, err := scripting.NewEngine(t.TempDir(), reg, host, nil)
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	require.NoError(t, engine.Exec(`loop.hook("update", "tick", function() end)`))

	host.Tick(time.Millisecond)
	w.entries = nil

	stopLoop(systems, engine, bus, js, zap.NewNop())

	var removed []string
	for _, e := range w.entries {
		if e.Action == "remove" {
			removed = append(removed, e.HookName)
		}
	}
	assert.Equal(t, []string{"hook_journal", "event_dispatch", "lua:tick"}, removed)
	assert.Equal(t, 0, engine.HookCount())
	for _, p := range host.Current().Phases {
		assert.Empty(t, p.Chain.Entries(), "phase %s", p.Tag)
	}
}

func TestStopLoop_WithoutJournalOrEngine(t *testing.T) {
	host := loop.NewHost(loop.NewConfiguration(loop.PhasePreUpdate))
	bus := event.NewBus()
	systems := hook.NewSystems(hook.NewRegistry(host, nil, bus))
	systems.Register(system.NewEventDispatchSystem(bus))

	require.NotPanics(t, func() { stopLoop(systems, nil, bus, nil, zap.NewNop()) })
	assert.Equal(t, 0, systems.Len())
}
