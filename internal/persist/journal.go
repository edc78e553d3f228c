package persist

import (
	"context"
	"fmt"
	"time"
)

// JournalEntry records one successful hook mutation.
type JournalEntry struct {
	Phase    string
	HookName string
	Action   string // "add" or "remove"
	At       time.Time
}

type JournalRepo struct {
	db       *DB
	serverID int
}

func NewJournalRepo(db *DB, serverID int) *JournalRepo {
	return &JournalRepo{db: db, serverID: serverID}
}

// Write inserts a batch of journal entries in a single transaction.
func (r *JournalRepo) Write(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO hook_journal (server_id, phase, hook_name, action, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			r.serverID, e.Phase, e.HookName, e.Action, e.At,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FrameStatsRow summarizes frame timing over a window of frames.
type FrameStatsRow struct {
	FirstFrame uint64
	LastFrame  uint64
	Avg        time.Duration
	Max        time.Duration
}

type StatsRepo struct {
	db       *DB
	serverID int
}

func NewStatsRepo(db *DB, serverID int) *StatsRepo {
	return &StatsRepo{db: db, serverID: serverID}
}

func (r *StatsRepo) Record(ctx context.Context, row FrameStatsRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO frame_stats (server_id, first_frame, last_frame, avg_frame_us, max_frame_us)
		 VALUES ($1, $2, $3, $4, $5)`,
		r.serverID, int64(row.FirstFrame), int64(row.LastFrame),
		row.Avg.Microseconds(), row.Max.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert frame stats: %w", err)
	}
	return nil
}
