package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"project/backend/engine"
	"project/backend/models"

	"gorm.io/gorm"
)

// Store is the Postgres-backed implementation of engine.AuthoritativeStore.
// It owns the durable completion and streak rows; the engine only mirrors
// them.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// FetchTodayCompletion returns the user's completion row for the given
// date. A day with no row yet (created lazily on first write) is reported
// as an empty completion for that date, not an error.
func (s *Store) FetchTodayCompletion(ctx context.Context, userID uint, date engine.CalendarDate) (engine.DailyCompletion, error) {
	var row models.DailyCompletion
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, string(date)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.DailyCompletion{Date: date}, nil
	}
	if err != nil {
		return engine.DailyCompletion{}, err
	}
	return toEngineCompletion(row), nil
}

// FetchStreak returns the user's streak row, or a zero streak if the user
// has never completed a full day.
func (s *Store) FetchStreak(ctx context.Context, userID uint) (engine.UserStreak, error) {
	var row models.UserStreak
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.UserStreak{}, nil
	}
	if err != nil {
		return engine.UserStreak{}, err
	}
	return toEngineStreak(row), nil
}

// FetchWeekCompletions returns the completion rows between weekStart and
// weekEnd inclusive. Days without rows are simply absent.
func (s *Store) FetchWeekCompletions(ctx context.Context, userID uint, weekStart, weekEnd engine.CalendarDate) ([]engine.DailyCompletion, error) {
	var rows []models.DailyCompletion
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, string(weekStart), string(weekEnd)).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]engine.DailyCompletion, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEngineCompletion(row))
	}
	return out, nil
}

// FetchMonthCompletions returns the day numbers of the month with all
// stages done, for calendar rendering.
func (s *Store) FetchMonthCompletions(ctx context.Context, userID uint, year int, month time.Month) ([]int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var dates []string
	err := s.DB.WithContext(ctx).
		Model(&models.DailyCompletion{}).
		Where("user_id = ? AND date LIKE ? AND all_stages_done = ?", userID, prefix+"%", true).
		Order("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}
	days := make([]int, 0, len(dates))
	for _, d := range dates {
		if len(d) != 10 {
			continue
		}
		day, err := strconv.Atoi(d[8:])
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days, nil
}

// WriteStageCompletion upserts the stage flag on the user's row for the
// date; calling it twice for the same user/date/stage is safe. When the
// write flips the day's AllStagesDone to true, the authoritative streak
// update runs in the same transaction, exactly once per date.
func (s *Store) WriteStageCompletion(ctx context.Context, userID uint, date engine.CalendarDate, stage engine.Stage, passageID *uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.DailyCompletion
		err := tx.Where("user_id = ? AND date = ?", userID, string(date)).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.DailyCompletion{UserID: userID, Date: string(date)}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// A fully completed day is immutable.
		if row.AllStagesDone {
			return nil
		}

		changed := false
		switch stage {
		case engine.StageCheckIn:
			if !row.CheckInDone {
				row.CheckInDone = true
				changed = true
			}
		case engine.StagePassage:
			if !row.PassageDone {
				row.PassageDone = true
				changed = true
			}
			if passageID != nil && row.PassageID == nil {
				row.PassageID = passageID
				changed = true
			}
		case engine.StageInsight:
			if !row.InsightDone {
				row.InsightDone = true
				changed = true
			}
		default:
			return fmt.Errorf("unknown stage %q", stage)
		}
		if !changed {
			return nil
		}

		flipped := false
		if row.CheckInDone && row.PassageDone && row.InsightDone {
			row.AllStagesDone = true
			now := time.Now()
			row.CompletedAt = &now
			flipped = true
		}

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if flipped {
			return recordAllStagesCompleted(tx, userID, date)
		}
		return nil
	})
}

// recordAllStagesCompleted applies the authoritative streak update for a
// date whose AllStagesDone just flipped true. Invoked only by the store
// layer itself, never by clients.
func recordAllStagesCompleted(tx *gorm.DB, userID uint, date engine.CalendarDate) error {
	var row models.UserStreak
	err := tx.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.UserStreak{UserID: userID}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	updated := engine.ApplyCompletion(date, toEngineStreak(row))
	row.CurrentStreak = updated.CurrentStreak
	row.LongestStreak = updated.LongestStreak
	row.TotalCompletions = updated.TotalCompletions
	last := string(updated.LastCompletionDate)
	row.LastCompletionDate = &last
	return tx.Save(&row).Error
}

func toEngineCompletion(row models.DailyCompletion) engine.DailyCompletion {
	return engine.DailyCompletion{
		Date:          engine.CalendarDate(row.Date),
		CheckInDone:   row.CheckInDone,
		PassageDone:   row.PassageDone,
		InsightDone:   row.InsightDone,
		PassageID:     row.PassageID,
		AllStagesDone: row.AllStagesDone,
		CompletedAt:   row.CompletedAt,
	}
}

func toEngineStreak(row models.UserStreak) engine.UserStreak {
	s := engine.UserStreak{
		CurrentStreak:    row.CurrentStreak,
		LongestStreak:    row.LongestStreak,
		TotalCompletions: row.TotalCompletions,
	}
	if row.LastCompletionDate != nil {
		s.LastCompletionDate = engine.CalendarDate(*row.LastCompletionDate)
	}
	return s
}
