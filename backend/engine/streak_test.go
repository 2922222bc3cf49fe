package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCompletion_SameDateUnchanged(t *testing.T) {
	s := UserStreak{CurrentStreak: 2, LongestStreak: 5, LastCompletionDate: "2025-03-10", TotalCompletions: 7}
	assert.Equal(t, s, ApplyCompletion("2025-03-10", s))
}

func TestApplyCompletion_NextDayExtends(t *testing.T) {
	s := UserStreak{CurrentStreak: 2, LongestStreak: 5, LastCompletionDate: "2025-03-09", TotalCompletions: 7}
	got := ApplyCompletion("2025-03-10", s)

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	assert.Equal(t, CalendarDate("2025-03-10"), got.LastCompletionDate)
	assert.Equal(t, 8, got.TotalCompletions)
}

func TestApplyCompletion_GapRestarts(t *testing.T) {
	s := UserStreak{CurrentStreak: 4, LongestStreak: 5, LastCompletionDate: "2025-03-08", TotalCompletions: 7}
	got := ApplyCompletion("2025-03-10", s)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	assert.Equal(t, CalendarDate("2025-03-10"), got.LastCompletionDate)
	assert.Equal(t, 8, got.TotalCompletions)
}

func TestApplyCompletion_FirstEver(t *testing.T) {
	got := ApplyCompletion("2025-03-10", UserStreak{})

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 1, got.TotalCompletions)
	assert.Equal(t, CalendarDate("2025-03-10"), got.LastCompletionDate)
}

func TestApplyCompletion_LongestTracksCurrent(t *testing.T) {
	s := UserStreak{CurrentStreak: 5, LongestStreak: 5, LastCompletionDate: "2025-03-09"}
	got := ApplyCompletion("2025-03-10", s)

	assert.Equal(t, 6, got.CurrentStreak)
	assert.Equal(t, 6, got.LongestStreak)
}

func TestApplyCompletion_LongestNeverDecreases(t *testing.T) {
	s := UserStreak{}
	dates := []CalendarDate{
		"2025-03-01", "2025-03-02", "2025-03-03", // 3-day run
		"2025-03-10",               // gap, restart
		"2025-03-11", "2025-03-11", // duplicate day
		"2025-03-15", // another gap
	}
	longest := 0
	for _, d := range dates {
		s = ApplyCompletion(d, s)
		assert.GreaterOrEqual(t, s.LongestStreak, longest)
		assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
		longest = s.LongestStreak
	}
	assert.Equal(t, 3, s.LongestStreak)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 6, s.TotalCompletions)
}

func TestReconcileOnRead_FreshStreakKept(t *testing.T) {
	s := UserStreak{CurrentStreak: 3, LongestStreak: 5, LastCompletionDate: "2025-03-10"}

	assert.Equal(t, 3, ReconcileOnRead(s, "2025-03-10").CurrentStreak)
	assert.Equal(t, 3, ReconcileOnRead(s, "2025-03-11").CurrentStreak)
}

func TestReconcileOnRead_GapShowsZero(t *testing.T) {
	s := UserStreak{CurrentStreak: 3, LongestStreak: 5, LastCompletionDate: "2025-03-08"}
	got := ReconcileOnRead(s, "2025-03-10")

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	// Read-time only: the input record is untouched.
	assert.Equal(t, 3, s.CurrentStreak)
}

func TestReconcileOnRead_NeverCompleted(t *testing.T) {
	got := ReconcileOnRead(UserStreak{}, "2025-03-10")
	assert.Equal(t, 0, got.CurrentStreak)
}

func TestReconcileOnRead_ClampsBadAuthoritativeData(t *testing.T) {
	// longest < current violates the store invariant; clamp rather than fail.
	s := UserStreak{CurrentStreak: 7, LongestStreak: 4, LastCompletionDate: "2025-03-10"}
	got := ReconcileOnRead(s, "2025-03-10")

	assert.Equal(t, 7, got.CurrentStreak)
	assert.Equal(t, 7, got.LongestStreak)
}
