package motivation

import (
	"context"
	"time"

	"github.com/M-owl-8/ACT/internal/logging"

	"gorm.io/gorm"
)

// entryEvent identifies the user and booked date affected by a mutation.
type entryEvent struct {
	UserID uint
	Booked time.Time
}

// Engine keeps streaks and goal caches in sync with entry mutations. Events
// are delivered over a buffered in-process queue consumed by a single worker
// so recompute cost never sits on the request path. Recompute failures are
// logged and swallowed: current_value is a re-derivable cache, and a failed
// refresh must never fail the entry mutation that caused it.
type Engine struct {
	db     *gorm.DB
	events chan entryEvent
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Start launches the worker goroutine. The queue drains until ctx is
// cancelled. Without Start the engine processes events synchronously, which
// tests rely on.
func (e *Engine) Start(ctx context.Context) {
	e.events = make(chan entryEvent, 256)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-e.events:
				e.process(ev)
			}
		}
	}()
}

// EntryChanged notifies the engine that an entry with the given booked date
// was created, updated or deleted. Exactly one notification per mutation.
func (e *Engine) EntryChanged(userID uint, booked time.Time) {
	ev := entryEvent{UserID: userID, Booked: booked}
	if e.events == nil {
		e.process(ev)
		return
	}
	select {
	case e.events <- ev:
	default:
		// queue full: drop and let the next mutation re-derive the cache
		logging.L.Warn().Uint("user_id", userID).Msg("motivation queue full, event dropped")
	}
}

func (e *Engine) process(ev entryEvent) {
	if _, err := CheckStreak(e.db, ev.UserID, time.Now().UTC()); err != nil {
		logging.L.Warn().Err(err).Uint("user_id", ev.UserID).Msg("streak check failed")
	}
	if err := RecomputeGoals(e.db, ev.UserID, ev.Booked); err != nil {
		logging.L.Warn().Err(err).Uint("user_id", ev.UserID).Msg("goal recompute failed")
	}
}
