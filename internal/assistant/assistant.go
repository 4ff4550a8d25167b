// Package assistant runs the dispatch loop. Each turn acquires input,
// routes it to one handler and emits the response, until the exit intent.
package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	log "log/slog"

	"github.com/PianoMan0/Forte/internal/intent"
	"github.com/PianoMan0/Forte/internal/listen"
	"github.com/PianoMan0/Forte/internal/session"
	"github.com/PianoMan0/Forte/internal/skills"
	"github.com/PianoMan0/Forte/internal/tasks"
	"github.com/PianoMan0/Forte/internal/voice"
)

const (
	apologyMsg      = "Sorry, something went wrong with that request."
	unrecognizedMsg = "Sorry, I didn't understand that command."
	busyMsg         = "I'm still catching up, please say that again in a moment."
)

// Deps wires the assistant's collaborators.
type Deps struct {
	Session    *session.State
	Speaker    *voice.Speaker
	Transcript voice.Transcript // may be nil
	Skills     *skills.Set
	Reminders  *tasks.Reminders
	Timers     *tasks.Timers
}

// Assistant owns the single dispatch loop. Turns are processed strictly
// in arrival order; background tasks never block the loop.
type Assistant struct {
	router     *intent.Router
	sess       *session.State
	speaker    *voice.Speaker
	transcript voice.Transcript
	aliases    map[string]string

	in        chan string
	closeOnce sync.Once

	// Outbound observers (remote gateway). Register before Run.
	listeners []func(string)
}

// New builds the assistant and its rule table.
func New(d Deps) *Assistant {
	a := &Assistant{
		sess:       d.Session,
		speaker:    d.Speaker,
		transcript: d.Transcript,
		aliases:    defaultAliases,
		in:         make(chan string, 16),
	}
	a.router = buildRouter(d)
	return a
}

// Submit queues one utterance for the loop. Submitting sources must
// never block, so when the queue is full the utterance is rejected and
// the user is told instead of it vanishing silently.
func (a *Assistant) Submit(text string) {
	select {
	case a.in <- text:
	default:
		log.Warn("input queue full, rejecting utterance", "text", text)
		a.Emit(busyMsg)
	}
}

// CloseInput ends the input stream; the loop drains and returns.
func (a *Assistant) CloseInput() {
	a.closeOnce.Do(func() { close(a.in) })
}

// Notify registers an observer for every outbound message. Must be
// called before Run.
func (a *Assistant) Notify(fn func(string)) {
	a.listeners = append(a.listeners, fn)
}

// Emit sends one message through the output path without recording a
// conversation turn. Background tasks and capture prompts use it.
func (a *Assistant) Emit(text string) {
	a.speaker.Say(text)
	for _, fn := range a.listeners {
		fn(text)
	}
}

// AttachCaptor pumps a capture collaborator into the input queue on its
// own goroutine, recovering locally from capture failures.
func (a *Assistant) AttachCaptor(ctx context.Context, c listen.Captor) {
	go func() {
		for {
			text, err := c.Capture(ctx)
			switch {
			case err == nil:
				a.Submit(text)
			case errors.Is(err, io.EOF):
				a.CloseInput()
				return
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return
			case errors.Is(err, listen.ErrNoSpeech):
				// Nothing was said; just listen again.
			case errors.Is(err, listen.ErrUnintelligible):
				a.Emit("Sorry, I didn't catch that.")
			default:
				log.Error("capture failed", "err", err)
				a.Emit("Sorry, there was an error with speech capture.")
				time.Sleep(time.Second)
			}
		}
	}()
}

// Run processes utterances until the input stream closes, the context is
// cancelled, or a turn resolves to the exit intent.
func (a *Assistant) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-a.in:
			if !ok {
				return nil
			}
			if strings.TrimSpace(raw) == "" {
				continue
			}
			if exit := a.handleTurn(ctx, raw); exit {
				return nil
			}
		}
	}
}

// handleTurn runs one utterance to completion and reports whether the
// exit intent fired.
func (a *Assistant) handleTurn(ctx context.Context, raw string) bool {
	utt := intent.NewUtterance(raw, a.aliases)
	a.sess.Append(session.SpeakerUser, raw)
	if a.transcript != nil {
		if err := a.transcript.AppendTranscript(session.SpeakerUser, raw); err != nil {
			log.Warn("transcript write failed", "err", err)
		}
	}

	resp, err := a.router.Dispatch(ctx, utt)
	if err != nil {
		log.Error("handler failed", "err", err)
		resp = intent.Response{Text: apologyMsg}
	}
	if resp.Text != "" {
		a.sess.Append(session.SpeakerAssistant, resp.Text)
		a.Emit(resp.Text)
	}
	return resp.Exit
}
