package hook

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/loop"
)

// Systems hooks loop.System values into their phases and remembers the
// callback created for each, so the same one can be removed later.
type Systems struct {
	reg   *Registry
	bound map[loop.System]*loop.Update
	order []loop.System
}

func NewSystems(reg *Registry) *Systems {
	return &Systems{
		reg:   reg,
		bound: make(map[loop.System]*loop.Update),
	}
}

// Register hooks s.Update into s.Phase(). Registering the same system twice
// is a no-op; systems are not multicast. A system must be comparable (use a
// pointer); one that is not is logged and skipped.
func (s *Systems) Register(sys loop.System) {
	if sys == nil {
		return
	}
	if !isComparable(sys) {
		s.reg.log.Error("system not registered: type is not comparable, use a pointer",
			zap.String("system", fmt.Sprintf("%T", sys)))
		return
	}
	if _, ok := s.bound[sys]; ok {
		return
	}
	u := loop.NewUpdate(systemName(sys), func(dt time.Duration) { sys.Update(dt) })
	s.bound[sys] = u
	s.order = append(s.order, sys)
	s.reg.Add(sys.Phase(), u)
}

// Unregister removes a previously registered system.
func (s *Systems) Unregister(sys loop.System) {
	if !isComparable(sys) {
		return
	}
	u, ok := s.bound[sys]
	if !ok {
		return
	}
	delete(s.bound, sys)
	for i, o := range s.order {
		if o == sys {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.reg.Remove(sys.Phase(), u)
}

// UnregisterAll removes every system, newest first.
func (s *Systems) UnregisterAll() {
	for len(s.order) > 0 {
		s.Unregister(s.order[len(s.order)-1])
	}
}

// Len returns the number of registered systems.
func (s *Systems) Len() int { return len(s.order) }

func systemName(sys loop.System) string {
	if n, ok := sys.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}

func isComparable(sys loop.System) bool {
	return sys != nil && reflect.TypeOf(sys).Comparable()
}
