package engine

// UserStreak is the continuity record for one user. LastCompletionDate is
// the zero CalendarDate when the user has never completed a full day.
type UserStreak struct {
	CurrentStreak      int          `json:"current_streak"`
	LongestStreak      int          `json:"longest_streak"`
	LastCompletionDate CalendarDate `json:"last_completion_date,omitempty"`
	TotalCompletions   int          `json:"total_completions"`
}

// ApplyCompletion folds a newly all-stages-completed date into the streak
// record and returns the updated record:
//   - same date as the last completion: already counted, unchanged;
//   - the day after the last completion: streak extends;
//   - anything else (gap, or first ever completion): streak restarts at 1.
func ApplyCompletion(date CalendarDate, s UserStreak) UserStreak {
	if s.LastCompletionDate == date {
		return s
	}

	if !s.LastCompletionDate.IsZero() && s.LastCompletionDate.AddDays(1) == date {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.TotalCompletions++
	s.LastCompletionDate = date
	return s
}

// ReconcileOnRead returns the streak as it should be displayed for the
// given local date. If the last completion is neither today nor yesterday
// the current streak is shown as 0; the persisted record is left untouched.
// The authoritative reset is applied by the store layer on a schedule —
// the client never writes a streak reset itself. Incrementing optimistically
// but resetting only at read time is deliberate: a false increment is
// jarring, a false reset is worse.
func ReconcileOnRead(s UserStreak, today CalendarDate) UserStreak {
	s = clampStreak(s)
	if s.LastCompletionDate.IsZero() {
		s.CurrentStreak = 0
		return s
	}
	if s.LastCompletionDate != today && s.LastCompletionDate != today.AddDays(-1) {
		s.CurrentStreak = 0
	}
	return s
}

// clampStreak repairs a record that violates longest >= current. The engine
// consumes the authoritative store, it does not guard it, so bad data is
// clamped rather than rejected.
func clampStreak(s UserStreak) UserStreak {
	if s.LongestStreak < s.CurrentStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s
}
