// Package session holds the process-lifetime conversation state: the
// ordered turn log, the last response slot and the feature flags handlers
// read. It is owned by the dispatch loop alone and needs no locking.
package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "log/slog"
)

const (
	SpeakerUser      = "you"
	SpeakerAssistant = "forte"
)

// Turn is one (speaker, text) entry of the conversation history.
type Turn struct {
	Speaker string
	Text    string
	At      time.Time
}

// State is the per-process conversation state.
type State struct {
	turns   []Turn
	last    string
	hasLast bool

	// Set once at startup, read by handlers.
	TTS        bool
	Privileged bool

	level *log.LevelVar
}

// New creates an empty session. The level var backs the runtime verbosity
// toggle; nil disables the toggle.
func New(level *log.LevelVar) *State {
	return &State{level: level}
}

// Append records one turn. Assistant turns also overwrite the last
// response slot.
func (s *State) Append(speaker, text string) {
	s.turns = append(s.turns, Turn{Speaker: speaker, Text: text, At: time.Now()})
	if speaker == SpeakerAssistant {
		s.last = text
		s.hasLast = true
	}
}

// Turns returns a copy of the conversation history in arrival order.
func (s *State) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len reports the number of recorded turns.
func (s *State) Len() int { return len(s.turns) }

// Last returns the most recent assistant response, if any.
func (s *State) Last() (string, bool) {
	return s.last, s.hasLast
}

// Clear drops the history and the last response slot.
func (s *State) Clear() {
	s.turns = nil
	s.last = ""
	s.hasLast = false
}

// History renders the turn log for replay.
func (s *State) History() string {
	if len(s.turns) == 0 {
		return "Nothing in the history yet."
	}
	var b strings.Builder
	for _, t := range s.turns {
		fmt.Fprintf(&b, "%s %s: %s\n", t.At.Format("15:04:05"), t.Speaker, t.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Export writes the rendered history to a file.
func (s *State) Export(path string) error {
	if err := os.WriteFile(path, []byte(s.History()+"\n"), 0o644); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// Verbose reports whether debug logging is on.
func (s *State) Verbose() bool {
	return s.level != nil && s.level.Level() <= log.LevelDebug
}

// SetVerbose flips debug logging at runtime.
func (s *State) SetVerbose(on bool) {
	if s.level == nil {
		return
	}
	if on {
		s.level.Set(log.LevelDebug)
	} else {
		s.level.Set(log.LevelInfo)
	}
}
