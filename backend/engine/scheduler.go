package engine

import (
	"sync"
	"time"
)

type schedulerState int

const (
	schedIdle schedulerState = iota
	schedArmed
)

// rolloverScheduler arms a single one-shot timer for the next local
// midnight and re-arms itself after every fire, while the engine is alive.
// Two states: Armed (timer pending) and Idle (stopped). The fire callback
// is the engine's date-change-guarded refresh, so a midnight the engine
// already observed via a foreground resume does not refresh twice.
type rolloverScheduler struct {
	clock Clock
	loc   *time.Location
	fire  func()

	mu    sync.Mutex
	state schedulerState
	timer Timer
}

func newRolloverScheduler(clock Clock, loc *time.Location, fire func()) *rolloverScheduler {
	return &rolloverScheduler{clock: clock, loc: loc, fire: fire}
}

// Start arms the midnight timer. Starting an already armed scheduler is
// a no-op.
func (s *rolloverScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == schedArmed {
		return
	}
	s.state = schedArmed
	s.arm()
}

// Stop cancels the pending timer and returns to Idle.
func (s *rolloverScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = schedIdle
}

// arm schedules the next fire. Caller holds s.mu.
func (s *rolloverScheduler) arm() {
	d := untilNextMidnight(s.clock.Now(), s.loc)
	s.timer = s.clock.AfterFunc(d, s.onTimer)
}

func (s *rolloverScheduler) onTimer() {
	s.fire()

	// Re-arm for the following midnight unless Stop raced the fire.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == schedArmed {
		s.arm()
	}
}
