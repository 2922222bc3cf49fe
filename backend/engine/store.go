package engine

import (
	"context"
	"time"
)

// DailyCompletion is one day's stage-completion row as the authoritative
// store reports it. AllStagesDone is maintained by the store layer and is
// immutable once true; CompletedAt is set when the third stage lands.
type DailyCompletion struct {
	Date          CalendarDate `json:"date"`
	CheckInDone   bool         `json:"check_in_done"`
	PassageDone   bool         `json:"passage_done"`
	InsightDone   bool         `json:"insight_done"`
	PassageID     *uint        `json:"passage_id,omitempty"`
	AllStagesDone bool         `json:"all_stages_done"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// AuthoritativeStore is the engine's view of the durable source-of-truth
// persistence layer. The engine holds a cache that may run optimistically
// ahead of the store until the next refresh; the store always wins on
// refresh. Implementations must make WriteStageCompletion an upsert, safe
// to call twice for the same user/date/stage, and must apply the
// authoritative streak update themselves when a write flips a day's
// AllStagesDone to true (the engine only mirrors the streak optimistically,
// it never writes it).
type AuthoritativeStore interface {
	FetchTodayCompletion(ctx context.Context, userID uint, date CalendarDate) (DailyCompletion, error)
	FetchStreak(ctx context.Context, userID uint) (UserStreak, error)
	FetchWeekCompletions(ctx context.Context, userID uint, weekStart, weekEnd CalendarDate) ([]DailyCompletion, error)
	FetchMonthCompletions(ctx context.Context, userID uint, year int, month time.Month) ([]int, error)
	WriteStageCompletion(ctx context.Context, userID uint, date CalendarDate, stage Stage, passageID *uint) error
}
