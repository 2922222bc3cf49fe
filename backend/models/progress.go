package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyCompletion is one row per (user, calendar date). Created lazily on
// the first stage completion of a new date, never deleted. Once
// AllStagesDone is true the row is immutable for that date.
type DailyCompletion struct {
	gorm.Model
	UserID        uint   `gorm:"index:idx_daily_completion_user_date,unique"`
	Date          string `gorm:"size:10;index:idx_daily_completion_user_date,unique"`
	CheckInDone   bool   `gorm:"default:false"`
	PassageDone   bool   `gorm:"default:false"`
	InsightDone   bool   `gorm:"default:false"`
	PassageID     *uint
	AllStagesDone bool `gorm:"default:false"`
	CompletedAt   *time.Time
}

// UserStreak is one row per user, mutated only when a DailyCompletion
// flips AllStagesDone to true. LongestStreak >= CurrentStreak always.
type UserStreak struct {
	gorm.Model
	UserID             uint    `gorm:"uniqueIndex"`
	CurrentStreak      int     `gorm:"default:0"`
	LongestStreak      int     `gorm:"default:0"`
	LastCompletionDate *string `gorm:"size:10"`
	TotalCompletions   int     `gorm:"default:0"`
}
