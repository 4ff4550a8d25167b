// Package store persists reminder and note records as JSON files plus an
// append-only transcript log. Record lists are read fully at startup and
// rewritten fully on every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Reminder is the persisted shape of a pending reminder.
type Reminder struct {
	FireAt  int64  `json:"fire_at"`
	Message string `json:"message"`
}

// Note is the persisted shape of a saved note.
type Note struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

const (
	remindersFile  = "reminders.json"
	notesFile      = "notes.json"
	transcriptFile = "transcript.log"
)

// Store is a directory-backed file store. All methods are safe for
// concurrent use; background tasks rewrite the reminder set while the
// dispatch loop writes notes and transcript lines.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open prepares the data directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadReminders reads the full reminder list. A missing file yields an
// empty list.
func (s *Store) LoadReminders() ([]Reminder, error) {
	var out []Reminder
	if err := s.load(remindersFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveReminders rewrites the full reminder list.
func (s *Store) SaveReminders(rs []Reminder) error {
	return s.save(remindersFile, rs)
}

// LoadNotes reads the full note list. A missing file yields an empty list.
func (s *Store) LoadNotes() ([]Note, error) {
	var out []Note
	if err := s.load(notesFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveNotes rewrites the full note list.
func (s *Store) SaveNotes(ns []Note) error {
	return s.save(notesFile, ns)
}

// AppendTranscript adds one line to the transcript log.
func (s *Store) AppendTranscript(speaker, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, transcriptFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n", time.Now().Format(time.RFC3339), speaker, text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (s *Store) load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
