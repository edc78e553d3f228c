package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/loophook/internal/core/loop"
)

func TestBus_EventsVisibleNextFrame(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(ev HookAdded) { got = append(got, ev.Name) })

	Emit(b, HookAdded{Phase: loop.PhaseUpdate, Name: "f"})
	b.DispatchAll()
	assert.Empty(t, got, "event must not be visible before swap")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"f"}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"f"}, got, "event must be delivered once")
}

func TestBus_RoutesByType(t *testing.T) {
	b := NewBus()
	added, removed := 0, 0
	Subscribe(b, func(HookAdded) { added++ })
	Subscribe(b, func(HookRemoved) { removed++ })

	Emit(b, HookAdded{})
	Emit(b, HookAdded{})
	Emit(b, HookRemoved{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
}

func TestBus_EmitFromHandlerGoesToNextFrame(t *testing.T) {
	b := NewBus()
	frames := 0
	Subscribe(b, func(ev FrameCompleted) {
		frames++
		if ev.Frame < 2 {
			Emit(b, FrameCompleted{Frame: ev.Frame + 1})
		}
	})

	Emit(b, FrameCompleted{Frame: 0})
	for i := 0; i < 5; i++ {
		b.SwapBuffers()
		b.DispatchAll()
	}
	assert.Equal(t, 3, frames)
}

func TestBus_DispatchKeepsEmitOrderAcrossTypes(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(ev HookAdded) { got = append(got, "add:"+ev.Name) })
	Subscribe(b, func(ev HookRemoved) { got = append(got, "remove:"+ev.Name) })

	for i := 0; i < 50; i++ {
		Emit(b, HookAdded{Name: "f"})
		Emit(b, HookRemoved{Name: "f"})
		Emit(b, HookAdded{Name: "g"})
		b.SwapBuffers()
		b.DispatchAll()

		require.Equal(t, []string{"add:f", "remove:f", "add:g"}, got, "iteration %d", i)
		got = got[:0]
	}
}
