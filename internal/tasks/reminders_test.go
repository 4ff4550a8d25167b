package tasks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PianoMan0/Forte/internal/store"
)

type memReminderStore struct {
	mu    sync.Mutex
	saved []store.Reminder
	loads []store.Reminder
}

func (m *memReminderStore) LoadReminders() ([]store.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Reminder(nil), m.loads...), nil
}

func (m *memReminderStore) SaveReminders(rs []store.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append([]store.Reminder(nil), rs...)
	return nil
}

func (m *memReminderStore) lastSaved() []store.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Reminder(nil), m.saved...)
}

func TestAddPersistsBeforeReturning(t *testing.T) {
	st := &memReminderStore{}
	r := NewReminders(st, func(string) {})

	fireAt := r.Add(time.Hour, "check the oven")

	saved := st.lastSaved()
	require.Len(t, saved, 1)
	assert.Equal(t, "check the oven", saved[0].Message)
	assert.Equal(t, fireAt.Unix(), saved[0].FireAt)
}

func TestReminderFiresAndIsRemoved(t *testing.T) {
	st := &memReminderStore{}
	fired := make(chan string, 1)
	r := NewReminders(st, func(msg string) { fired <- msg })

	r.Add(50*time.Millisecond, "stretch")

	select {
	case msg := <-fired:
		assert.Equal(t, "Reminder: stretch", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	assert.Eventually(t, func() bool {
		return len(st.lastSaved()) == 0 && len(r.List()) == 0
	}, 2*time.Second, 10*time.Millisecond, "fired reminder not removed from the store")
}

func TestLoadDropsStaleReminders(t *testing.T) {
	now := time.Now()
	st := &memReminderStore{loads: []store.Reminder{
		{FireAt: now.Add(-time.Minute).Unix(), Message: "already gone"},
		{FireAt: now.Add(time.Hour).Unix(), Message: "still coming"},
	}}
	r := NewReminders(st, func(string) {})

	require.NoError(t, r.Load())

	list := r.List()
	require.Len(t, list, 1)
	assert.Contains(t, list[0], "still coming")

	saved := st.lastSaved()
	require.Len(t, saved, 1)
	assert.Equal(t, "still coming", saved[0].Message)
}

func TestListFormat(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	r := NewReminders(nil, func(string) {})
	r.now = func() time.Time { return base }

	r.pending = []store.Reminder{
		{FireAt: base.Add(5 * time.Minute).Unix(), Message: "tea"},
		{FireAt: base.Add(-time.Minute).Unix(), Message: "kettle"},
	}

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "in 5m: tea", list[0])
	assert.Equal(t, "due: kettle", list[1])
}

func TestNilStoreIsInMemoryOnly(t *testing.T) {
	r := NewReminders(nil, func(string) {})
	require.NoError(t, r.Load())

	r.Add(time.Hour, "no store")
	assert.Len(t, r.List(), 1)
}
