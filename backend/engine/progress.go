package engine

import "math"

// Stage is one of the three ordered daily sub-tasks.
type Stage string

const (
	StageCheckIn Stage = "check_in"
	StagePassage Stage = "passage"
	StageInsight Stage = "insight"
)

// Stages lists all stages in ritual order.
var Stages = []Stage{StageCheckIn, StagePassage, StageInsight}

// ParseStage validates a stage name coming from a request body.
func ParseStage(s string) (Stage, bool) {
	switch Stage(s) {
	case StageCheckIn, StagePassage, StageInsight:
		return Stage(s), true
	}
	return "", false
}

// ProgressSnapshot is the public shape of today's progress: three stage
// booleans plus a derived completion percentage.
type ProgressSnapshot struct {
	Date        CalendarDate `json:"date"`
	CheckInDone bool         `json:"check_in_done"`
	PassageDone bool         `json:"passage_done"`
	InsightDone bool         `json:"insight_done"`
	Percentage  int          `json:"percentage"`
}

// ProgressStore holds today's three-stage completion state in memory.
// No network access; callers own synchronization.
type ProgressStore struct {
	date        CalendarDate
	checkInDone bool
	passageDone bool
	insightDone bool
}

func NewProgressStore(date CalendarDate) *ProgressStore {
	return &ProgressStore{date: date}
}

// Snapshot returns the current state with the percentage recomputed.
func (p *ProgressStore) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Date:        p.date,
		CheckInDone: p.checkInDone,
		PassageDone: p.passageDone,
		InsightDone: p.insightDone,
		Percentage:  completionPercentage(p.completedCount()),
	}
}

// SetStage marks a stage done and reports whether the state changed.
// Marking an already-done stage again is a no-op.
func (p *ProgressStore) SetStage(stage Stage) bool {
	switch stage {
	case StageCheckIn:
		if p.checkInDone {
			return false
		}
		p.checkInDone = true
	case StagePassage:
		if p.passageDone {
			return false
		}
		p.passageDone = true
	case StageInsight:
		if p.insightDone {
			return false
		}
		p.insightDone = true
	default:
		return false
	}
	return true
}

// StageDone reports whether the given stage is already marked done.
func (p *ProgressStore) StageDone(stage Stage) bool {
	switch stage {
	case StageCheckIn:
		return p.checkInDone
	case StagePassage:
		return p.passageDone
	case StageInsight:
		return p.insightDone
	}
	return false
}

// AllDone reports whether all three stages are complete.
func (p *ProgressStore) AllDone() bool {
	return p.checkInDone && p.passageDone && p.insightDone
}

// Date returns the calendar date this store tracks.
func (p *ProgressStore) Date() CalendarDate {
	return p.date
}

// Reset clears all stage flags and rebinds the store to a new date.
func (p *ProgressStore) Reset(date CalendarDate) {
	p.date = date
	p.checkInDone = false
	p.passageDone = false
	p.insightDone = false
}

// Load replaces the store's state from an authoritative completion row.
func (p *ProgressStore) Load(c DailyCompletion) {
	p.date = c.Date
	p.checkInDone = c.CheckInDone
	p.passageDone = c.PassageDone
	p.insightDone = c.InsightDone
}

func (p *ProgressStore) completedCount() int {
	n := 0
	if p.checkInDone {
		n++
	}
	if p.passageDone {
		n++
	}
	if p.insightDone {
		n++
	}
	return n
}

// completionPercentage computes round(done/3*100). The rule is kept as an
// explicit rounding computation rather than a lookup table.
func completionPercentage(done int) int {
	return int(math.Round(float64(done) / 3.0 * 100))
}
