// Package focus holds the clock logic behind focus sessions: a pausable
// stopwatch and the work/break cycle. It has no storage of its own.
package focus

import "time"

type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// DefaultIdleTimeout pauses a running timer after this long without activity.
const DefaultIdleTimeout = 5 * time.Minute

// Timer measures elapsed focus time, excluding paused spans.
type Timer struct {
	now func() time.Time

	state     timerState
	startTime time.Time
	pausedAt  time.Time
	pauseGap  time.Duration

	lastActivity time.Time
	IdleTimeout  time.Duration
	idle         bool
}

// NewTimer returns a stopped timer. A nil clock means time.Now.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now, IdleTimeout: DefaultIdleTimeout}
}

func (t *Timer) Start() {
	now := t.now()
	t.state = timerRunning
	t.startTime = now
	t.pauseGap = 0
	t.lastActivity = now
	t.idle = false
}

// Stop halts the timer and returns the focus time it measured.
func (t *Timer) Stop() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	d := t.Elapsed()
	t.state = timerStopped
	return d
}

func (t *Timer) Pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = t.now()
}

func (t *Timer) Resume() {
	if t.state != timerPaused {
		return
	}
	now := t.now()
	t.pauseGap += now.Sub(t.pausedAt)
	t.state = timerRunning
	t.idle = false
	t.lastActivity = now
}

func (t *Timer) Toggle() {
	switch t.state {
	case timerRunning:
		t.Pause()
	case timerPaused:
		t.Resume()
	}
}

// Tick pauses a running timer once it has been idle for IdleTimeout.
// It reports whether that happened on this call.
func (t *Timer) Tick() bool {
	if t.state != timerRunning || t.idle || t.IdleTimeout <= 0 {
		return false
	}
	if t.now().Sub(t.lastActivity) > t.IdleTimeout {
		t.idle = true
		t.Pause()
		return true
	}
	return false
}

// RecordActivity resets the idle clock, resuming a timer that idled out.
func (t *Timer) RecordActivity() {
	t.lastActivity = t.now()
	if t.idle && t.state == timerPaused {
		t.Resume()
	}
}

func (t *Timer) Running() bool { return t.state != timerStopped }
func (t *Timer) Paused() bool  { return t.state == timerPaused }
func (t *Timer) Idle() bool    { return t.idle }

// Elapsed is the running time minus every pause, including the current one.
func (t *Timer) Elapsed() time.Duration {
	switch t.state {
	case timerPaused:
		return t.pausedAt.Sub(t.startTime) - t.pauseGap
	case timerRunning:
		return t.now().Sub(t.startTime) - t.pauseGap
	}
	return 0
}
