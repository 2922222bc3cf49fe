package store_test

import (
	"context"
	"testing"
	"time"

	"project/backend/config"
	"project/backend/engine"
	"project/backend/models"
	"project/backend/store"
	"project/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testStore connects to the local test database, skipping when none is
// available, and returns a store bound to a fresh user.
func testStore(t *testing.T) (*store.Store, *gorm.DB, uint) {
	t.Helper()

	cfg := &config.Config{
		DBHost:          "localhost",
		DBPort:          "5432",
		DBUser:          "postgres",
		DBPassword:      "postgres",
		DBName:          "daily_ritual_test",
		DefaultTimezone: "UTC",
	}
	db, err := utils.InitDB(cfg)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	user := models.User{
		Username:     "u-" + uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Timezone:     "UTC",
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.DailyCompletion{})
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserStreak{})
		db.Unscoped().Delete(&user)
	})

	return store.New(db), db, user.ID
}

func TestWriteStageCompletion_LazyRowAndUpsert(t *testing.T) {
	s, _, userID := testStore(t)
	ctx := context.Background()
	date := engine.CalendarDate("2025-03-10")

	// First write creates the row lazily.
	require.NoError(t, s.WriteStageCompletion(ctx, userID, date, engine.StageCheckIn, nil))
	got, err := s.FetchTodayCompletion(ctx, userID, date)
	require.NoError(t, err)
	assert.True(t, got.CheckInDone)
	assert.False(t, got.AllStagesDone)

	// Writing the same stage twice is safe.
	require.NoError(t, s.WriteStageCompletion(ctx, userID, date, engine.StageCheckIn, nil))
	again, err := s.FetchTodayCompletion(ctx, userID, date)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestWriteStageCompletion_FlipAppliesStreakOnce(t *testing.T) {
	s, _, userID := testStore(t)
	ctx := context.Background()
	date := engine.CalendarDate("2025-03-10")

	for _, stage := range engine.Stages {
		require.NoError(t, s.WriteStageCompletion(ctx, userID, date, stage, nil))
	}

	got, err := s.FetchTodayCompletion(ctx, userID, date)
	require.NoError(t, err)
	assert.True(t, got.AllStagesDone)
	require.NotNil(t, got.CompletedAt)

	streak, err := s.FetchStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.TotalCompletions)
	assert.Equal(t, date, streak.LastCompletionDate)

	// A completed day is immutable; re-writing must not bump the streak.
	require.NoError(t, s.WriteStageCompletion(ctx, userID, date, engine.StageInsight, nil))
	streak, err = s.FetchStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.TotalCompletions)

	// The next day extends the streak.
	next := date.AddDays(1)
	for _, stage := range engine.Stages {
		require.NoError(t, s.WriteStageCompletion(ctx, userID, next, stage, nil))
	}
	streak, err = s.FetchStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.TotalCompletions)
}

func TestWriteStageCompletion_PassageReference(t *testing.T) {
	s, _, userID := testStore(t)
	ctx := context.Background()
	date := engine.CalendarDate("2025-03-10")
	passageID := uint(7)

	require.NoError(t, s.WriteStageCompletion(ctx, userID, date, engine.StagePassage, &passageID))
	got, err := s.FetchTodayCompletion(ctx, userID, date)
	require.NoError(t, err)
	require.NotNil(t, got.PassageID)
	assert.Equal(t, uint(7), *got.PassageID)
}

func TestFetchWeekAndMonthCompletions(t *testing.T) {
	s, _, userID := testStore(t)
	ctx := context.Background()

	for _, date := range []engine.CalendarDate{"2025-03-10", "2025-03-11"} {
		for _, stage := range engine.Stages {
			require.NoError(t, s.WriteStageCompletion(ctx, userID, date, stage, nil))
		}
	}
	// A partial day must not count as completed.
	require.NoError(t, s.WriteStageCompletion(ctx, userID, "2025-03-12", engine.StageCheckIn, nil))

	week, err := s.FetchWeekCompletions(ctx, userID, "2025-03-10", "2025-03-16")
	require.NoError(t, err)
	assert.Len(t, week, 3)

	days, err := s.FetchMonthCompletions(ctx, userID, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, days)
}

func TestFetchStreak_NeverCompletedIsZero(t *testing.T) {
	s, _, userID := testStore(t)

	streak, err := s.FetchStreak(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, engine.UserStreak{}, streak)
}

func TestResetLapsedStreaks(t *testing.T) {
	s, db, userID := testStore(t)
	ctx := context.Background()

	last := "2025-03-08"
	require.NoError(t, db.Create(&models.UserStreak{
		UserID:             userID,
		CurrentStreak:      4,
		LongestStreak:      6,
		LastCompletionDate: &last,
		TotalCompletions:   9,
	}).Error)

	// Two days after the last completion the streak has lapsed.
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := s.ResetLapsedStreaks(ctx, now)
	require.NoError(t, err)

	streak, err := s.FetchStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 6, streak.LongestStreak)
	assert.Equal(t, 9, streak.TotalCompletions)
}
