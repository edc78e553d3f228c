package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/loop"
	"github.com/l1jgo/loophook/internal/persist"
)

// maxPendingJournal bounds the backlog kept while the database is failing.
const maxPendingJournal = 4096

// JournalWriter stores a batch of hook journal entries.
type JournalWriter interface {
	Write(ctx context.Context, entries []persist.JournalEntry) error
}

// JournalSystem collects hook mutations from the event bus and writes them
// in batches. Phase Persist.
type JournalSystem struct {
	writer  JournalWriter
	every   int
	log     *zap.Logger
	pending []persist.JournalEntry
	frames  int
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, every int, log *zap.Logger) *JournalSystem {
	if every <= 0 {
		every = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &JournalSystem{writer: writer, every: every, log: log}
	event.Subscribe(bus, func(ev event.HookAdded) {
		s.queue(persist.JournalEntry{Phase: ev.Phase.String(), HookName: ev.Name, Action: "add", At: ev.At})
	})
	event.Subscribe(bus, func(ev event.HookRemoved) {
		s.queue(persist.JournalEntry{Phase: ev.Phase.String(), HookName: ev.Name, Action: "remove", At: ev.At})
	})
	return s
}

func (s *JournalSystem) Name() string      { return "hook_journal" }
func (s *JournalSystem) Phase() loop.Phase { return loop.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.frames++
	if s.frames < s.every {
		return
	}
	s.frames = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Error("flush hook journal", zap.Error(err), zap.Int("pending", len(s.pending)))
	}
}

// Flush writes every pending entry. On failure the entries stay queued.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.writer.Write(ctx, s.pending); err != nil {
		return err
	}
	s.pending = s.pending[:0]
	return nil
}

// Pending returns the number of unwritten entries.
func (s *JournalSystem) Pending() int { return len(s.pending) }

func (s *JournalSystem) queue(e persist.JournalEntry) {
	if len(s.pending) >= maxPendingJournal {
		s.log.Warn("hook journal backlog full, dropping oldest entry")
		s.pending = append(s.pending[:0], s.pending[1:]...)
	}
	s.pending = append(s.pending, e)
}
