package loop

import "time"

// System is a unit of per-frame work bound to one phase.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
