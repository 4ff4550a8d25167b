// Package tasks runs the fire-once background work: persisted reminders
// and bounded ephemeral timers. Each scheduled action is a detached
// goroutine that fires at most once and never blocks the dispatch loop.
package tasks

import (
	"fmt"
	"sync"
	"time"

	log "log/slog"

	"github.com/PianoMan0/Forte/internal/store"
)

// Announcer emits a fired task's message to the user.
type Announcer func(text string)

// ReminderStore persists the full pending reminder set.
type ReminderStore interface {
	LoadReminders() ([]store.Reminder, error)
	SaveReminders([]store.Reminder) error
}

// Reminders owns the persisted reminder set. Every mutation rewrites the
// store so pending reminders survive a restart; store failures degrade to
// in-memory operation for that call.
type Reminders struct {
	mu       sync.Mutex
	pending  []store.Reminder
	st       ReminderStore
	announce Announcer
	now      func() time.Time
}

// NewReminders creates an empty manager. st may be nil for in-memory use.
func NewReminders(st ReminderStore, announce Announcer) *Reminders {
	return &Reminders{st: st, announce: announce, now: time.Now}
}

// Load reads persisted reminders, drops any already due, and re-schedules
// the rest with their remaining delay.
func (r *Reminders) Load() error {
	if r.st == nil {
		return nil
	}
	saved, err := r.st.LoadReminders()
	if err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}

	now := r.now().Unix()
	kept := saved[:0]
	for _, rem := range saved {
		if rem.FireAt <= now {
			log.Info("dropping stale reminder", "message", rem.Message)
			continue
		}
		kept = append(kept, rem)
	}

	r.mu.Lock()
	r.pending = append([]store.Reminder(nil), kept...)
	if len(kept) != len(saved) {
		r.persistLocked()
	}
	r.mu.Unlock()

	for _, rem := range kept {
		r.schedule(rem)
	}
	return nil
}

// Add registers a reminder firing after d, persists it, and schedules the
// delayed announcement. It returns the absolute fire time.
func (r *Reminders) Add(d time.Duration, message string) time.Time {
	fireAt := r.now().Add(d)
	rem := store.Reminder{FireAt: fireAt.Unix(), Message: message}

	r.mu.Lock()
	r.pending = append(r.pending, rem)
	r.persistLocked()
	r.mu.Unlock()

	r.schedule(rem)
	return fireAt
}

// List renders pending reminders: remaining whole minutes for upcoming
// ones, a "due" marker for any past their time but not yet fired.
func (r *Reminders) List() []string {
	now := r.now().Unix()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.pending))
	for _, rem := range r.pending {
		if rem.FireAt > now {
			out = append(out, fmt.Sprintf("in %dm: %s", (rem.FireAt-now)/60, rem.Message))
		} else {
			out = append(out, "due: "+rem.Message)
		}
	}
	return out
}

func (r *Reminders) schedule(rem store.Reminder) {
	delay := time.Unix(rem.FireAt, 0).Sub(r.now())
	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		<-t.C
		r.announce("Reminder: " + rem.Message)
		r.remove(rem)
	}()
}

// remove logically deletes a fired reminder and rewrites the store.
func (r *Reminders) remove(rem store.Reminder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.pending {
		if p.FireAt == rem.FireAt && p.Message == rem.Message {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			break
		}
	}
	r.persistLocked()
}

func (r *Reminders) persistLocked() {
	if r.st == nil {
		return
	}
	if err := r.st.SaveReminders(append([]store.Reminder(nil), r.pending...)); err != nil {
		log.Warn("persisting reminders failed, continuing in memory", "err", err)
	}
}
