package voice

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	log "log/slog"
)

const duckTimeout = 2 * time.Second

// Renderer produces audible output for one message.
type Renderer interface {
	Render(text string) error
}

// Transcript records outbound messages durably.
type Transcript interface {
	AppendTranscript(speaker, text string) error
}

// Ducker lowers other audio streams while the assistant speaks.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

// Speaker is the single outbound path. It prints and logs every message
// unconditionally, and only then attempts audible output under the gate,
// so the assistant stays usable when audio is disabled or failing.
// Concurrent callers (the dispatch loop and background tasks) are
// serialized.
type Speaker struct {
	mu         sync.Mutex
	gate       *Gate
	out        io.Writer
	renderer   Renderer
	transcript Transcript
	ducker     Ducker
	speaker    string
}

// NewSpeaker wires the output path. renderer may be nil (audible output
// disabled); transcript and ducker may be nil.
func NewSpeaker(gate *Gate, out io.Writer, renderer Renderer, transcript Transcript) *Speaker {
	return &Speaker{
		gate:       gate,
		out:        out,
		renderer:   renderer,
		transcript: transcript,
		speaker:    "forte",
	}
}

// SetDucker enables audio ducking around audible output.
func (s *Speaker) SetDucker(d Ducker) {
	s.ducker = d
}

// Say emits one message: console, transcript, then speech. The gate is
// set for the whole audible render plus the trailing grace interval and
// released on every exit path.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, text)
	if s.transcript != nil {
		if err := s.transcript.AppendTranscript(s.speaker, text); err != nil {
			log.Warn("transcript write failed", "err", err)
		}
	}
	if s.renderer == nil {
		return
	}

	s.gate.Begin()
	defer s.gate.End()

	if s.ducker != nil {
		duckCtx, cancel := context.WithTimeout(context.Background(), duckTimeout)
		if err := s.ducker.Duck(duckCtx); err != nil {
			log.Debug("duck failed", "err", err)
		}
		cancel()
		// The restore deadline must not start until the render is done,
		// so the deferred call gets its own context.
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), duckTimeout)
			defer cancel()
			if err := s.ducker.Restore(ctx); err != nil {
				log.Debug("unduck failed", "err", err)
			}
		}()
	}

	if err := s.renderer.Render(text); err != nil {
		log.Warn("audible output failed", "err", err)
	}
}
