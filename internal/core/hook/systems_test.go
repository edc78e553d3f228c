package hook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/loophook/internal/core/loop"
)

type countingSystem struct {
	phase loop.Phase
	runs  int
}

func (s *countingSystem) Phase() loop.Phase      { return s.phase }
func (s *countingSystem) Update(_ time.Duration) { s.runs++ }

func TestSystems_RegisterHooksIntoPhase(t *testing.T) {
	h := newTestHost(loop.PhaseInput, loop.PhaseUpdate)
	sys := NewSystems(NewRegistry(h, nil, nil))
	in := &countingSystem{phase: loop.PhaseInput}
	up := &countingSystem{phase: loop.PhaseUpdate}

	sys.Register(in)
	sys.Register(up)
	sys.Register(up)
	h.Tick(time.Millisecond)

	assert.Equal(t, 1, in.runs)
	assert.Equal(t, 1, up.runs, "a system registers at most once")
	require.Len(t, chainOf(h, loop.PhaseUpdate), 1)
	assert.Equal(t, "*hook.countingSystem", chainOf(h, loop.PhaseUpdate)[0].Name)
}

func TestSystems_Unregister(t *testing.T) {
	h := newTestHost(loop.PhaseUpdate)
	sys := NewSystems(NewRegistry(h, nil, nil))
	a := &countingSystem{phase: loop.PhaseUpdate}
	b := &countingSystem{phase: loop.PhaseUpdate}
	sys.Register(a)
	sys.Register(b)

	sys.Unregister(a)
	sys.Unregister(a)
	h.Tick(time.Millisecond)

	assert.Equal(t, 0, a.runs)
	assert.Equal(t, 1, b.runs)
	assert.Equal(t, 1, sys.Len())
}

func TestSystems_UnregisterAll(t *testing.T) {
	h := newTestHost(loop.PhaseInput, loop.PhaseUpdate)
	sys := NewSystems(NewRegistry(h, nil, nil))
	sys.Register(&countingSystem{phase: loop.PhaseInput})
	sys.Register(&countingSystem{phase: loop.PhaseUpdate})

	sys.UnregisterAll()

	assert.Equal(t, 0, sys.Len())
	assert.Empty(t, chainOf(h, loop.PhaseInput))
	assert.Empty(t, chainOf(h, loop.PhaseUpdate))
}

type taggedSystem struct {
	tags []string
}

func (s taggedSystem) Phase() loop.Phase      { return loop.PhaseUpdate }
func (s taggedSystem) Update(_ time.Duration) {}

func TestSystems_RejectsUncomparableSystem(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := newTestHost(loop.PhaseUpdate)
	sys := NewSystems(NewRegistry(h, zap.New(core), nil))
	bad := taggedSystem{tags: []string{"a"}}

	require.NotPanics(t, func() {
		sys.Register(bad)
		sys.Unregister(bad)
	})
	sys.Register(nil)

	assert.Equal(t, 0, sys.Len())
	assert.Empty(t, chainOf(h, loop.PhaseUpdate))
	assert.Equal(t, 1, logs.FilterMessageSnippet("not comparable").Len())
}
