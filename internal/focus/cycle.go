package focus

import (
	"fmt"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWork
	PhaseShortBreak
	PhaseLongBreak
	PhaseCompleted
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "IDLE",
	PhaseWork:       "WORK",
	PhaseShortBreak: "SHORT BREAK",
	PhaseLongBreak:  "LONG BREAK",
	PhaseCompleted:  "COMPLETED",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Counting reports whether the phase has a countdown.
func (p Phase) Counting() bool {
	return p == PhaseWork || p == PhaseShortBreak || p == PhaseLongBreak
}

// Config sets the cycle's durations. Target 0 runs until cancelled.
type Config struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
	Target         int
}

// FromPreferences builds a Config from the stored minutes.
func FromPreferences(p store.UserPreferences) Config {
	return Config{
		Work:           time.Duration(p.FocusDuration) * time.Minute,
		ShortBreak:     time.Duration(p.BreakDuration) * time.Minute,
		LongBreak:      time.Duration(p.LongBreakDuration) * time.Minute,
		LongBreakEvery: p.SessionsUntilLongBreak,
	}
}

// DefaultConfig is 25/5/15 with a long break every fourth round.
func DefaultConfig() Config {
	return FromPreferences(store.DefaultPreferences())
}

// Event reports what a transition did, so callers can log sessions.
type Event int

const (
	EventNone Event = iota
	EventWorkDone
	EventBreakDone
	EventCycleDone
)

// Cycle steps through work and break phases.
type Cycle struct {
	cfg Config

	phase     Phase
	completed int
	phaseEnd  time.Time
	remaining time.Duration
}

func NewCycle(cfg Config) *Cycle {
	if cfg.LongBreakEvery <= 0 {
		cfg.LongBreakEvery = 4
	}
	return &Cycle{cfg: cfg}
}

func (c *Cycle) Phase() Phase             { return c.phase }
func (c *Cycle) Completed() int           { return c.completed }
func (c *Cycle) Config() Config           { return c.cfg }
func (c *Cycle) Remaining() time.Duration { return max(c.remaining, 0) }

// Start begins a fresh cycle with a work phase.
func (c *Cycle) Start(now time.Time) {
	c.completed = 0
	c.startPhase(PhaseWork, c.cfg.Work, now)
}

func (c *Cycle) startPhase(p Phase, d time.Duration, now time.Time) {
	c.phase = p
	c.remaining = d
	c.phaseEnd = now.Add(d)
}

// Tick updates the countdown and advances when the current phase is over.
func (c *Cycle) Tick(now time.Time) Event {
	if !c.phase.Counting() {
		return EventNone
	}
	c.remaining = c.phaseEnd.Sub(now)
	if c.remaining > 0 {
		return EventNone
	}
	return c.advance(now)
}

func (c *Cycle) advance(now time.Time) Event {
	switch c.phase {
	case PhaseWork:
		c.completed++
		if c.cfg.Target > 0 && c.completed >= c.cfg.Target {
			c.phase = PhaseCompleted
			c.remaining = 0
			return EventCycleDone
		}
		if c.completed%c.cfg.LongBreakEvery == 0 {
			c.startPhase(PhaseLongBreak, c.cfg.LongBreak, now)
		} else {
			c.startPhase(PhaseShortBreak, c.cfg.ShortBreak, now)
		}
		return EventWorkDone
	case PhaseShortBreak, PhaseLongBreak:
		c.startPhase(PhaseWork, c.cfg.Work, now)
		return EventBreakDone
	}
	return EventNone
}

// SkipBreak ends a break early and starts the next work phase.
func (c *Cycle) SkipBreak(now time.Time) bool {
	if c.phase != PhaseShortBreak && c.phase != PhaseLongBreak {
		return false
	}
	c.startPhase(PhaseWork, c.cfg.Work, now)
	return true
}

// Cancel drops back to idle, keeping the completed count for display.
func (c *Cycle) Cancel() {
	c.phase = PhaseIdle
	c.remaining = 0
}

// FormatClock renders d as MM:SS, clamping negatives to zero.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
