package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// Engine owns one user's in-memory daily progress, streak mirror and weekly
// view. Mutations are applied optimistically and persisted in the
// background; Refresh replaces the whole cache from the authoritative
// store. The cache is exclusively owned by the engine — collaborators only
// read snapshots and call the two mutating entry points, CompleteStage and
// Refresh.
type Engine struct {
	userID   uint
	resolver *DateResolver
	store    AuthoritativeStore
	logger   *log.Logger
	sched    *rolloverScheduler

	mu           sync.Mutex
	progress     *ProgressStore
	streak       UserStreak
	weekly       WeeklyCompletionView
	lastObserved CalendarDate
}

// NewEngine builds an engine for one user in the given local timezone. The
// engine starts with an empty cache for today; call Start (or Refresh) to
// hydrate it from the store.
func NewEngine(userID uint, loc *time.Location, store AuthoritativeStore, clock Clock, logger *log.Logger) *Engine {
	e := &Engine{
		userID:   userID,
		resolver: NewDateResolver(clock, loc),
		store:    store,
		logger:   logger,
	}
	today := e.resolver.Today()
	e.progress = NewProgressStore(today)
	e.weekly = buildWeeklyView(today, nil)
	e.lastObserved = today
	e.sched = newRolloverScheduler(clock, loc, e.refreshIfDateChanged)
	return e
}

// Start hydrates the cache and arms the midnight rollover timer. A failed
// initial fetch is logged and the engine starts from its empty state; the
// next refresh self-heals.
func (e *Engine) Start(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil {
		e.logger.Printf("engine: initial refresh failed for user %d: %v", e.userID, err)
	}
	e.sched.Start()
}

// Stop cancels the rollover timer. Called on sign-out.
func (e *Engine) Stop() {
	e.sched.Stop()
}

// Refresh re-derives all cached state from the authoritative store,
// discarding any optimistic predictions. On any fetch error the previous
// cache is retained unchanged — stale but consistent beats blank. The new
// state is computed fully before being swapped in, so a concurrent reader
// never observes a half-applied refresh.
func (e *Engine) Refresh(ctx context.Context) error {
	today := e.resolver.Today()

	completion, err := e.store.FetchTodayCompletion(ctx, e.userID, today)
	if err != nil {
		e.logger.Printf("engine: fetch today completion failed for user %d: %v", e.userID, err)
		return err
	}
	streak, err := e.store.FetchStreak(ctx, e.userID)
	if err != nil {
		e.logger.Printf("engine: fetch streak failed for user %d: %v", e.userID, err)
		return err
	}
	weekStart, weekEnd := weekBounds(today)
	rows, err := e.store.FetchWeekCompletions(ctx, e.userID, weekStart, weekEnd)
	if err != nil {
		e.logger.Printf("engine: fetch week completions failed for user %d: %v", e.userID, err)
		return err
	}

	fresh := NewProgressStore(today)
	fresh.Load(completion)
	weekly := buildWeeklyView(today, rows)

	e.mu.Lock()
	e.progress = fresh
	e.streak = clampStreak(streak)
	e.weekly = weekly
	e.lastObserved = today
	e.mu.Unlock()
	return nil
}

// CompleteStage applies a stage completion optimistically and persists it
// in the background. The caller gets the updated snapshot immediately; the
// write never blocks the caller and is never retried — a failure is logged
// and corrected by the next refresh.
func (e *Engine) CompleteStage(stage Stage, passageID *uint) ProgressSnapshot {
	today := e.resolver.Today()

	e.mu.Lock()
	if e.progress.Date() != today {
		// Rolled past midnight without a refresh; today starts clean.
		e.progress.Reset(today)
	}
	if e.progress.StageDone(stage) {
		snap := e.progress.Snapshot()
		e.mu.Unlock()
		return snap
	}
	e.progress.SetStage(stage)
	if e.progress.AllDone() {
		e.streak = ApplyCompletion(today, e.streak)
		e.weekly = markTodayCompleted(e.weekly)
	}
	snap := e.progress.Snapshot()
	e.mu.Unlock()

	go func() {
		if err := e.store.WriteStageCompletion(context.Background(), e.userID, today, stage, passageID); err != nil {
			e.logger.Printf("engine: persist stage %s failed for user %d on %s: %v", stage, e.userID, today, err)
		}
	}()
	return snap
}

// Snapshot returns today's progress. If midnight passed since the cache was
// built the snapshot is corrected at read time to an empty day; the cache
// itself is only replaced by Refresh.
func (e *Engine) Snapshot() ProgressSnapshot {
	today := e.resolver.Today()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.progress.Date() != today {
		return NewProgressStore(today).Snapshot()
	}
	return e.progress.Snapshot()
}

// Streak returns the streak as it should be displayed right now, with the
// read-time continuity correction applied.
func (e *Engine) Streak() UserStreak {
	today := e.resolver.Today()
	e.mu.Lock()
	defer e.mu.Unlock()
	return ReconcileOnRead(e.streak, today)
}

// WeeklyView returns the cached Monday..Sunday completion view.
func (e *Engine) WeeklyView() WeeklyCompletionView {
	e.mu.Lock()
	defer e.mu.Unlock()
	days := make([]WeeklyDay, len(e.weekly.Days))
	copy(days, e.weekly.Days)
	return WeeklyCompletionView{Days: days}
}

// MonthlyCompletedDays returns the day numbers of the given month with all
// stages done, straight from the authoritative store.
func (e *Engine) MonthlyCompletedDays(ctx context.Context, year int, month time.Month) ([]int, error) {
	return e.store.FetchMonthCompletions(ctx, e.userID, year, month)
}

// OnResume is the app-foreground hook. It refreshes if and only if the
// local date changed while the process was suspended, covering the
// midnight the timer missed. Returns whether a refresh ran.
func (e *Engine) OnResume(ctx context.Context) (bool, error) {
	e.mu.Lock()
	last := e.lastObserved
	e.mu.Unlock()
	if !e.resolver.HasDateChangedSince(last) {
		return false, nil
	}
	return true, e.Refresh(ctx)
}

// refreshIfDateChanged is the rollover timer callback. Refresh records the
// observed date, so if a resume already handled this midnight the timer
// fire is a no-op.
func (e *Engine) refreshIfDateChanged() {
	e.mu.Lock()
	last := e.lastObserved
	e.mu.Unlock()
	if !e.resolver.HasDateChangedSince(last) {
		return
	}
	if err := e.Refresh(context.Background()); err != nil {
		e.logger.Printf("engine: rollover refresh failed for user %d: %v", e.userID, err)
	}
}
