package engine

import "time"

// WeeklyDay is one entry of the weekly completion view.
type WeeklyDay struct {
	Date      CalendarDate `json:"date"`
	Completed bool         `json:"completed"`
	IsToday   bool         `json:"is_today"`
}

// WeeklyCompletionView is the Monday..Sunday projection of the current
// week's completions. Recomputed on every refresh, never persisted.
type WeeklyCompletionView struct {
	Days []WeeklyDay `json:"days"`
}

// weekBounds returns the Monday and Sunday of the week containing today.
// Weeks start on Monday: a Sunday still belongs to the week that began
// the preceding Monday.
func weekBounds(today CalendarDate) (CalendarDate, CalendarDate) {
	offset := int(today.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := today.AddDays(-offset)
	return start, start.AddDays(6)
}

// buildWeeklyView projects authoritative completion rows onto the seven
// days of today's week, marking exactly the today entry IsToday.
func buildWeeklyView(today CalendarDate, completions []DailyCompletion) WeeklyCompletionView {
	completed := make(map[CalendarDate]bool, len(completions))
	for _, c := range completions {
		if c.AllStagesDone {
			completed[c.Date] = true
		}
	}

	start, _ := weekBounds(today)
	days := make([]WeeklyDay, 7)
	for i := range days {
		date := start.AddDays(i)
		days[i] = WeeklyDay{
			Date:      date,
			Completed: completed[date],
			IsToday:   date == today,
		}
	}
	return WeeklyCompletionView{Days: days}
}

// markTodayCompleted returns a copy of the view with today's entry flipped
// to completed. Used for the optimistic update when the third stage lands.
func markTodayCompleted(view WeeklyCompletionView) WeeklyCompletionView {
	days := make([]WeeklyDay, len(view.Days))
	copy(days, view.Days)
	for i := range days {
		if days[i].IsToday {
			days[i].Completed = true
		}
	}
	return WeeklyCompletionView{Days: days}
}
