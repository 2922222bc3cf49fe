package engine

import (
	"fmt"
	"time"
)

// CalendarDate is a local calendar date in "YYYY-MM-DD" form, no time
// component. String comparison of two CalendarDates orders them
// chronologically because the fields are zero-padded.
type CalendarDate string

const calendarDateLayout = "2006-01-02"

// DateOf derives the calendar date from the year/month/day components of t
// in t's own location. The time is never converted to UTC first: truncating
// a UTC timestamp would shift the date boundary for users west of UTC.
func DateOf(t time.Time) CalendarDate {
	year, month, day := t.Date()
	return CalendarDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// Time parses the date back into a time.Time at local midnight in loc.
func (d CalendarDate) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(calendarDateLayout, string(d), loc)
}

// AddDays returns the date n days after d (n may be negative).
func (d CalendarDate) AddDays(n int) CalendarDate {
	t, err := d.Time(time.UTC)
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Weekday returns the day of the week d falls on.
func (d CalendarDate) Weekday() time.Weekday {
	t, err := d.Time(time.UTC)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// IsZero reports whether d is the empty date (no completion recorded yet).
func (d CalendarDate) IsZero() bool {
	return d == ""
}

// Timer is the cancellable handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall-clock time and one-shot timers so the rollover
// scheduler can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DateResolver converts wall-clock time into the user's local calendar date
// and detects date-boundary crossings. It holds no mutable state; the
// last-observed date is remembered by the engine.
type DateResolver struct {
	clock Clock
	loc   *time.Location
}

func NewDateResolver(clock Clock, loc *time.Location) *DateResolver {
	return &DateResolver{clock: clock, loc: loc}
}

// Today returns the current calendar date in the resolver's location.
func (r *DateResolver) Today() CalendarDate {
	return DateOf(r.clock.Now().In(r.loc))
}

// HasDateChangedSince reports whether the local date has moved past previous.
func (r *DateResolver) HasDateChangedSince(previous CalendarDate) bool {
	return r.Today() != previous
}

// untilNextMidnight returns the duration from now to the next local
// midnight in loc. DST transitions are handled by constructing the next
// day's midnight from calendar components rather than adding 24h.
func untilNextMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	year, month, day := local.Date()
	next := time.Date(year, month, day+1, 0, 0, 0, 0, loc)
	return next.Sub(local)
}
