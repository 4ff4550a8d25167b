package skills

import (
	"fmt"
	"sync"

	log "log/slog"

	"github.com/PianoMan0/Forte/internal/store"
)

// NoteStore persists the full note list.
type NoteStore interface {
	LoadNotes() ([]store.Note, error)
	SaveNotes([]store.Note) error
}

// Notes keeps short user notes with stable integer identifiers. Like
// reminders, every mutation rewrites the store; store failures degrade to
// in-memory operation.
type Notes struct {
	mu     sync.Mutex
	st     NoteStore
	notes  []store.Note
	nextID int
}

// NewNotes creates an empty note list. st may be nil for in-memory use.
func NewNotes(st NoteStore) *Notes {
	return &Notes{st: st, nextID: 1}
}

// Load reads persisted notes and advances the id counter past them.
func (n *Notes) Load() error {
	if n.st == nil {
		return nil
	}
	saved, err := n.st.LoadNotes()
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = saved
	for _, note := range saved {
		if note.ID >= n.nextID {
			n.nextID = note.ID + 1
		}
	}
	return nil
}

// Add stores a note and returns its identifier.
func (n *Notes) Add(text string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.notes = append(n.notes, store.Note{ID: id, Text: text})
	n.persistLocked()
	return id
}

// List renders all notes.
func (n *Notes) List() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, fmt.Sprintf("%d: %s", note.ID, note.Text))
	}
	return out
}

// Delete removes a note by identifier, reporting whether it existed.
func (n *Notes) Delete(id int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, note := range n.notes {
		if note.ID == id {
			n.notes = append(n.notes[:i], n.notes[i+1:]...)
			n.persistLocked()
			return true
		}
	}
	return false
}

func (n *Notes) persistLocked() {
	if n.st == nil {
		return
	}
	if err := n.st.SaveNotes(append([]store.Note(nil), n.notes...)); err != nil {
		log.Warn("persisting notes failed, continuing in memory", "err", err)
	}
}
