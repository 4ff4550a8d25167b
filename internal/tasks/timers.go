package tasks

import (
	"errors"
	"time"
)

// DefaultTimerLimit bounds the number of concurrently running timers.
const DefaultTimerLimit = 5

// ErrTooManyTimers is returned when the concurrent timer bound is reached.
var ErrTooManyTimers = errors.New("too many active timers")

// Timers runs ephemeral, never-persisted countdowns. A buffered channel
// acts as the slot counter; the slot is released exactly once per created
// timer whether the countdown completes or fails.
type Timers struct {
	slots    chan struct{}
	announce Announcer
}

// NewTimers creates a manager with the given concurrent bound.
func NewTimers(limit int, announce Announcer) *Timers {
	if limit <= 0 {
		limit = DefaultTimerLimit
	}
	return &Timers{slots: make(chan struct{}, limit), announce: announce}
}

// Start reserves a slot and schedules the countdown. When the bound is
// exceeded it rejects immediately and schedules nothing.
func (t *Timers) Start(d time.Duration, label string) error {
	select {
	case t.slots <- struct{}{}:
	default:
		return ErrTooManyTimers
	}

	go func() {
		defer func() { <-t.slots }()

		tm := time.NewTimer(d)
		defer tm.Stop()
		<-tm.C

		msg := "Time's up!"
		if label != "" {
			msg = "Time's up: " + label
		}
		t.announce(msg)
	}()
	return nil
}

// Active reports the number of currently reserved timer slots.
func (t *Timers) Active() int {
	return len(t.slots)
}

// Limit reports the configured concurrent bound.
func (t *Timers) Limit() int {
	return cap(t.slots)
}
