package store

import (
	"context"
	"time"

	"project/backend/engine"
	"project/backend/models"
)

// ResetLapsedStreaks persists a current-streak reset for every user whose
// last completion is older than yesterday in their own timezone. This is
// the scheduled authoritative counterpart of the engine's read-time
// correction: clients display 0 as soon as a gap appears, but only this
// job writes the reset. Returns how many rows were reset.
func (s *Store) ResetLapsedStreaks(ctx context.Context, now time.Time) (int, error) {
	var rows []models.UserStreak
	err := s.DB.WithContext(ctx).
		Where("current_streak > 0 AND last_completion_date IS NOT NULL").
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, row := range rows {
		var user models.User
		if err := s.DB.WithContext(ctx).First(&user, row.UserID).Error; err != nil {
			continue
		}
		loc, err := time.LoadLocation(user.Timezone)
		if err != nil {
			loc = time.UTC
		}
		today := engine.DateOf(now.In(loc))
		last := engine.CalendarDate(*row.LastCompletionDate)
		if last == today || last == today.AddDays(-1) {
			continue
		}
		row.CurrentStreak = 0
		if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
			return reset, err
		}
		reset++
	}
	return reset, nil
}
