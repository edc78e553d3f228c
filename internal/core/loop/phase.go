package loop

import "fmt"

// Phase identifies one stage of the per-frame update sequence.
// Values outside the known set are legal; they just never match a phase entry.
type Phase int

const (
	PhaseInitialization Phase = iota // 0: frame bookkeeping
	PhaseInput                       // 1: drain input queues
	PhaseFixedUpdate                 // 2: fixed-step simulation
	PhasePreUpdate                   // 3: process last frame's events
	PhaseUpdate                      // 4: game logic
	PhaseLateUpdate                  // 5: regen, spawn, stats
	PhaseOutput                      // 6: build + send output
	PhasePersist                     // 7: journal flush
	PhaseCleanup                     // 8: destroy queued state
)

var phaseNames = [...]string{
	PhaseInitialization: "initialization",
	PhaseInput:          "input",
	PhaseFixedUpdate:    "fixed_update",
	PhasePreUpdate:      "pre_update",
	PhaseUpdate:         "update",
	PhaseLateUpdate:     "late_update",
	PhaseOutput:         "output",
	PhasePersist:        "persist",
	PhaseCleanup:        "cleanup",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ParsePhase maps a snake_case phase name back to its Phase.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// DefaultPhases returns every known phase in execution order.
func DefaultPhases() []Phase {
	out := make([]Phase, len(phaseNames))
	for i := range phaseNames {
		out[i] = Phase(i)
	}
	return out
}
