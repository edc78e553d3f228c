package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/loop"
	"github.com/l1jgo/loophook/internal/persist"
)

// StatsRecorder stores one frame timing summary.
type StatsRecorder interface {
	Record(ctx context.Context, row persist.FrameStatsRow) error
}

// FrameClock is shared by FrameStartSystem and FrameStatsSystem.
type FrameClock struct {
	now   func() time.Time
	start time.Time
}

func NewFrameClock(now func() time.Time) *FrameClock {
	if now == nil {
		now = time.Now
	}
	return &FrameClock{now: now}
}

// FrameStartSystem stamps the frame start. Phase Initialization.
type FrameStartSystem struct {
	clock *FrameClock
}

func NewFrameStartSystem(clock *FrameClock) *FrameStartSystem {
	return &FrameStartSystem{clock: clock}
}

func (s *FrameStartSystem) Name() string      { return "frame_start" }
func (s *FrameStartSystem) Phase() loop.Phase { return loop.PhaseInitialization }

func (s *FrameStartSystem) Update(_ time.Duration) {
	s.clock.start = s.clock.now()
}

// FrameStatsSystem measures each frame, emits FrameCompleted and records a
// summary every `every` frames. Phase Cleanup, so it sees the whole frame.
type FrameStatsSystem struct {
	clock    *FrameClock
	bus      *event.Bus
	recorder StatsRecorder // nil = log only
	every    int
	log      *zap.Logger

	frame      uint64
	windowFrom uint64
	windowN    int
	total      time.Duration
	max        time.Duration
}

func NewFrameStatsSystem(clock *FrameClock, bus *event.Bus, recorder StatsRecorder, every int, log *zap.Logger) *FrameStatsSystem {
	if every <= 0 {
		every = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FrameStatsSystem{
		clock:    clock,
		bus:      bus,
		recorder: recorder,
		every:    every,
		log:      log,
	}
}

func (s *FrameStatsSystem) Name() string      { return "frame_stats" }
func (s *FrameStatsSystem) Phase() loop.Phase { return loop.PhaseCleanup }

func (s *FrameStatsSystem) Update(_ time.Duration) {
	d := time.Duration(0)
	if !s.clock.start.IsZero() {
		d = s.clock.now().Sub(s.clock.start)
	}
	s.frame++
	if s.windowN == 0 {
		s.windowFrom = s.frame
	}
	s.windowN++
	s.total += d
	if d > s.max {
		s.max = d
	}
	if s.bus != nil {
		event.Emit(s.bus, event.FrameCompleted{Frame: s.frame, Duration: d})
	}

	if s.windowN >= s.every {
		s.flush()
	}
}

func (s *FrameStatsSystem) flush() {
	row := persist.FrameStatsRow{
		FirstFrame: s.windowFrom,
		LastFrame:  s.frame,
		Avg:        s.total / time.Duration(s.windowN),
		Max:        s.max,
	}
	s.windowN, s.total, s.max = 0, 0, 0

	s.log.Debug("frame stats",
		zap.Uint64("from", row.FirstFrame),
		zap.Uint64("to", row.LastFrame),
		zap.Duration("avg", row.Avg),
		zap.Duration("max", row.Max),
	)
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.recorder.Record(ctx, row); err != nil {
		s.log.Error("record frame stats", zap.Error(err))
	}
}
