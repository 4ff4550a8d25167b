package assistant

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PianoMan0/Forte/internal/session"
	"github.com/PianoMan0/Forte/internal/skills"
	"github.com/PianoMan0/Forte/internal/store"
	"github.com/PianoMan0/Forte/internal/tasks"
	"github.com/PianoMan0/Forte/internal/voice"
)

type fakeConverter struct {
	amount   float64
	from, to string
}

func (f *fakeConverter) Convert(_ context.Context, amount float64, from, to string) (string, error) {
	f.amount, f.from, f.to = amount, from, to
	return "10.00 USD is 9.20 EUR.", nil
}

type canned struct{ reply string }

func (c canned) Reply(context.Context, string) (string, error) { return c.reply, nil }

type harness struct {
	asst *Assistant
	sess *session.State
	out  *bytes.Buffer
	st   *store.Store
	set  *skills.Set
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	sess := session.New(nil)
	out := &bytes.Buffer{}
	speaker := voice.NewSpeaker(voice.NewGateWithGrace(time.Millisecond), out, nil, nil)

	set := &skills.Set{
		Jokes: skills.NewJokes(),
		Facts: skills.NewFacts(),
		Notes: skills.NewNotes(st),
	}

	asst := New(Deps{
		Session:   sess,
		Speaker:   speaker,
		Skills:    set,
		Reminders: tasks.NewReminders(st, func(string) {}),
		Timers:    tasks.NewTimers(tasks.DefaultTimerLimit, func(string) {}),
	})
	return &harness{asst: asst, sess: sess, out: out, st: st, set: set}
}

func (h *harness) turn(t *testing.T, text string) string {
	t.Helper()
	h.out.Reset()
	h.asst.handleTurn(context.Background(), text)
	return h.out.String()
}

func TestGreeting(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "Hello there"), "Hello!")
}

func TestAliasNormalization(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "yo"), "Hello!")
}

func TestGoodbyeExits(t *testing.T) {
	h := newHarness(t)

	exit := h.asst.handleTurn(context.Background(), "goodbye")
	assert.True(t, exit)
	assert.Contains(t, h.out.String(), "Goodbye! Have a great day!")
}

func TestReminderPersistsAndConfirms(t *testing.T) {
	h := newHarness(t)
	before := time.Now().Unix()

	resp := h.turn(t, "remind me in 1 minute to check the oven")

	assert.Contains(t, resp, "check the oven")
	assert.Contains(t, resp, "1 minutes")

	saved, err := h.st.LoadReminders()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "check the oven", saved[0].Message)
	assert.InDelta(t, before+60, saved[0].FireAt, 5)
}

func TestReminderHintOnMalformedCommand(t *testing.T) {
	h := newHarness(t)

	resp := h.turn(t, "remind me about the thing")

	assert.Contains(t, resp, "couldn't understand that reminder")

	saved, err := h.st.LoadReminders()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestTimerConfirmation(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "set a timer for 30 seconds"), "Timer set for 30 seconds.")
}

func TestTimerBoundMessage(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < tasks.DefaultTimerLimit; i++ {
		h.turn(t, "set a timer for 90 minutes")
	}
	resp := h.turn(t, "set a timer for 90 minutes")

	assert.Contains(t, resp, "5 timers running")
}

func TestCurrencySlotsReachConverter(t *testing.T) {
	h := newHarness(t)
	conv := &fakeConverter{}
	h.set.Currency = conv

	resp := h.turn(t, "convert 10 USD to EUR")

	assert.Equal(t, 10.0, conv.amount)
	assert.Equal(t, "USD", conv.from)
	assert.Equal(t, "EUR", conv.to)
	assert.Contains(t, resp, "10.00 USD is 9.20 EUR.")
}

func TestUnrecognizedWithoutAI(t *testing.T) {
	h := newHarness(t)

	resp := h.turn(t, "zzqx")

	assert.Contains(t, resp, unrecognizedMsg)
	// Exactly one user turn and one assistant turn were recorded.
	assert.Equal(t, 2, h.sess.Len())
}

func TestAIFallbackAnswers(t *testing.T) {
	h := newHarness(t)
	h.set.AI = canned{reply: "I would guess forty-two."}

	assert.Contains(t, h.turn(t, "zzqx"), "I would guess forty-two.")
}

func TestNotesFlow(t *testing.T) {
	h := newHarness(t)

	resp := h.turn(t, "note that the wifi password changed")
	assert.Contains(t, resp, "note 1")

	resp = h.turn(t, "list notes")
	assert.Contains(t, resp, "1: the wifi password changed")

	resp = h.turn(t, "delete note 1")
	assert.Contains(t, resp, "Deleted note 1.")

	resp = h.turn(t, "list notes")
	assert.Contains(t, resp, "You have no notes.")
}

func TestMetaHistory(t *testing.T) {
	h := newHarness(t)

	h.turn(t, "hello")
	resp := h.turn(t, "!history")

	assert.Contains(t, resp, "you: hello")
	assert.Contains(t, resp, "forte: Hello!")
}

func TestMetaExportNeedsPrivilege(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "!export"), "not allowed")
}

func TestMetaExportKeepsPathCase(t *testing.T) {
	h := newHarness(t)
	h.sess.Privileged = true
	h.turn(t, "hello")

	path := filepath.Join(t.TempDir(), "My Notes.TXT")
	resp := h.turn(t, "!export "+path)

	assert.Contains(t, resp, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "export must write to the exact path as typed")
	assert.Contains(t, string(data), "you: hello")
}

func TestMetaUnknown(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "!bogus"), "Unknown command")
}

func TestCalculateTurn(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.turn(t, "calculate 2 plus 2 times 3"), "8")
}

func TestTimerRulePrecedesTimeRule(t *testing.T) {
	h := newHarness(t)

	// "set a timer ..." contains the word "time" inside "timer" only,
	// but a labeled command can carry it verbatim.
	resp := h.turn(t, "set a timer for 10 seconds to check the time")
	assert.Contains(t, resp, "Timer set for 10 seconds.")
}

func TestRunProcessesInArrivalOrder(t *testing.T) {
	h := newHarness(t)

	h.asst.Submit("hello")
	h.asst.Submit("calculate 1 plus 1")
	h.asst.Submit("goodbye")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.asst.Run(ctx))

	turns := h.sess.Turns()
	require.Len(t, turns, 6)
	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, "Hello!", turns[1].Text)
	assert.Equal(t, "calculate 1 plus 1", turns[2].Text)
	assert.Equal(t, "2", turns[3].Text)
	assert.Equal(t, "goodbye", turns[4].Text)
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	h := newHarness(t)

	h.asst.Submit("hello")
	h.asst.CloseInput()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.asst.Run(ctx))
	assert.Equal(t, 2, h.sess.Len())
}

func TestBlankInputIsSkipped(t *testing.T) {
	h := newHarness(t)

	h.asst.Submit("   ")
	h.asst.CloseInput()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.asst.Run(ctx))
	assert.Zero(t, h.sess.Len())
}

func TestListenersSeeOutboundMessages(t *testing.T) {
	h := newHarness(t)

	var got []string
	h.asst.Notify(func(text string) { got = append(got, text) })

	h.turn(t, "hello")

	require.Len(t, got, 1)
	assert.Equal(t, "Hello!", got[0])
}

func TestSubmitAnnouncesWhenQueueIsFull(t *testing.T) {
	h := newHarness(t)

	// Fill the queue without running the loop.
	for i := 0; i < cap(h.asst.in); i++ {
		h.asst.Submit("hello")
	}
	h.out.Reset()

	h.asst.Submit("one more")

	assert.Contains(t, h.out.String(), busyMsg)
	assert.Len(t, h.asst.in, cap(h.asst.in), "rejected utterance must not enter the queue")
	assert.Zero(t, h.sess.Len(), "rejection feedback is not a conversation turn")
}

func TestEmitBypassesSession(t *testing.T) {
	h := newHarness(t)

	h.asst.Emit("Reminder: stretch")

	assert.Contains(t, h.out.String(), "Reminder: stretch")
	assert.Zero(t, h.sess.Len())
}
