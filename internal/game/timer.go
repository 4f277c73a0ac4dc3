package game

import "time"

// TurnTimer counts down the player's turn. A zero duration disables it.
type TurnTimer struct {
	duration  time.Duration
	remaining time.Duration
	running   bool
	expired   bool
}

// NewTurnTimer creates a stopped timer.
func NewTurnTimer(d time.Duration) *TurnTimer {
	return &TurnTimer{duration: d}
}

// Start resets the countdown for a new turn.
func (t *TurnTimer) Start() {
	t.remaining = t.duration
	t.running = t.duration > 0
	t.expired = false
}

// Stop halts the countdown without expiring it.
func (t *TurnTimer) Stop() {
	t.running = false
}

// Advance subtracts elapsed time. It returns true exactly once, on the tick that expires the timer.
func (t *TurnTimer) Advance(elapsed time.Duration) bool {
	if !t.running || t.expired || elapsed <= 0 {
		return false
	}
	t.remaining -= elapsed
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.running = false
	t.expired = true
	return true
}

// Expired reports whether the countdown reached zero this turn.
func (t *TurnTimer) Expired() bool {
	return t.expired
}

// Remaining returns the time left, or 0 when the timer is disabled.
func (t *TurnTimer) Remaining() time.Duration {
	return t.remaining
}

// Enabled reports whether the timer counts down at all.
func (t *TurnTimer) Enabled() bool {
	return t.duration > 0
}
