package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_StringRoundTrip(t *testing.T) {
	for _, p := range DefaultPhases() {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestPhase_UnknownName(t *testing.T) {
	_, err := ParsePhase("render")
	assert.Error(t, err)
	assert.Equal(t, "phase(42)", Phase(42).String())
}

func TestConfiguration_CloneIsDeep(t *testing.T) {
	f := NewUpdate("f", nil)
	cfg := NewConfiguration(PhaseUpdate)
	cfg.Phases[0].Chain.Append(f)

	cp := cfg.Clone()
	cp.Phases[0].Chain.Append(f)

	assert.Equal(t, 1, cfg.Phases[0].Chain.Len())
	assert.Equal(t, 2, cp.Phases[0].Chain.Len())
}

func TestConfiguration_FindFirstMatch(t *testing.T) {
	cfg := NewConfiguration(PhaseInitialization, PhaseUpdate, PhaseUpdate)
	assert.Equal(t, 1, cfg.Find(PhaseUpdate))
	assert.Equal(t, -1, cfg.Find(PhaseCleanup))
}

func TestHost_CurrentIsPrivateCopy(t *testing.T) {
	h := NewHost(NewConfiguration(PhaseUpdate))
	cfg := h.Current()
	cfg.Phases[0].Chain.Append(NewUpdate("f", nil))

	assert.Equal(t, 0, h.Current().Phases[0].Chain.Len())
}

func TestHost_TickRunsPhasesInOrder(t *testing.T) {
	var got []string
	rec := func(name string) *Update {
		return NewUpdate(name, func(time.Duration) { got = append(got, name) })
	}
	cfg := NewConfiguration(PhaseInitialization, PhaseUpdate, PhaseLateUpdate)
	cfg.Phases[2].Chain.Append(rec("late"))
	cfg.Phases[0].Chain.Append(rec("init"))
	cfg.Phases[1].Chain.Append(rec("update"))
	h := NewHost(cfg)

	h.Tick(time.Millisecond)

	assert.Equal(t, []string{"init", "update", "late"}, got)
	assert.Equal(t, uint64(1), h.Frame())
}

func TestHost_SetDuringTickAppliesNextFrame(t *testing.T) {
	h := NewHost(NewConfiguration(PhaseUpdate, PhaseLateUpdate))
	lateRuns := 0
	late := NewUpdate("late", func(time.Duration) { lateRuns++ })
	installer := NewUpdate("installer", func(time.Duration) {
		cfg := h.Current()
		if cfg.Phases[1].Chain.Count(late) == 0 {
			cfg.Phases[1].Chain.Append(late)
			h.Set(cfg)
		}
	})
	cfg := h.Current()
	cfg.Phases[0].Chain.Append(installer)
	h.Set(cfg)

	h.Tick(time.Millisecond)
	assert.Equal(t, 0, lateRuns)

	h.Tick(time.Millisecond)
	assert.Equal(t, 1, lateRuns)
}

func TestHost_TickPhase(t *testing.T) {
	inputRuns, updateRuns := 0, 0
	cfg := NewConfiguration(PhaseInput, PhaseUpdate)
	cfg.Phases[0].Chain.Append(NewUpdate("in", func(time.Duration) { inputRuns++ }))
	cfg.Phases[1].Chain.Append(NewUpdate("up", func(time.Duration) { updateRuns++ }))
	h := NewHost(cfg)

	h.TickPhase(PhaseInput, time.Millisecond)
	h.TickPhase(PhaseCleanup, time.Millisecond)

	assert.Equal(t, 1, inputRuns)
	assert.Equal(t, 0, updateRuns)
	assert.Equal(t, uint64(0), h.Frame())
}
