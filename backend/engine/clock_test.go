package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf_UsesLocalComponents(t *testing.T) {
	// 23:30 on March 10 in UTC-8 is already March 11 in UTC. The calendar
	// date must come from the local components, not a truncated UTC stamp.
	pacific := time.FixedZone("UTC-8", -8*3600)
	local := time.Date(2025, 3, 10, 23, 30, 0, 0, pacific)

	assert.Equal(t, CalendarDate("2025-03-10"), DateOf(local))
	assert.Equal(t, CalendarDate("2025-03-11"), DateOf(local.UTC()))
}

func TestDateOf_ZeroPadded(t *testing.T) {
	d := DateOf(time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, CalendarDate("2025-01-05"), d)
}

func TestCalendarDate_AddDays(t *testing.T) {
	assert.Equal(t, CalendarDate("2025-03-11"), CalendarDate("2025-03-10").AddDays(1))
	assert.Equal(t, CalendarDate("2025-03-09"), CalendarDate("2025-03-10").AddDays(-1))
	assert.Equal(t, CalendarDate("2025-04-01"), CalendarDate("2025-03-31").AddDays(1))
	assert.Equal(t, CalendarDate("2024-02-29"), CalendarDate("2024-02-28").AddDays(1))
	assert.Equal(t, CalendarDate("2025-01-01"), CalendarDate("2024-12-31").AddDays(1))
}

func TestCalendarDate_Ordering(t *testing.T) {
	// Zero padding makes string comparison chronological.
	assert.True(t, CalendarDate("2025-03-09") < CalendarDate("2025-03-10"))
	assert.True(t, CalendarDate("2025-09-30") < CalendarDate("2025-10-01"))
}

func TestDateResolver_Today(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))
	r := NewDateResolver(clock, time.UTC)

	assert.Equal(t, CalendarDate("2025-03-10"), r.Today())
	assert.False(t, r.HasDateChangedSince("2025-03-10"))

	clock.Advance(10 * time.Hour)
	assert.Equal(t, CalendarDate("2025-03-11"), r.Today())
	assert.True(t, r.HasDateChangedSince("2025-03-10"))
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 2*time.Hour, untilNextMidnight(now, time.UTC))

	// One second past midnight still waits for the *next* midnight.
	justAfter := time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, 24*time.Hour-time.Second, untilNextMidnight(justAfter, time.UTC))
}
