package voice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateHoldsThroughGrace(t *testing.T) {
	g := NewGateWithGrace(30 * time.Millisecond)

	g.Begin()
	assert.True(t, g.Speaking())

	done := make(chan struct{})
	go func() {
		g.End()
		close(done)
	}()

	// Still set right after output ends.
	time.Sleep(5 * time.Millisecond)
	assert.True(t, g.Speaking())

	<-done
	assert.False(t, g.Speaking())
}

func TestAwaitQuietReturnsImmediatelyWhenClear(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.AwaitQuiet(context.Background()))
}

func TestAwaitQuietBlocksUntilClear(t *testing.T) {
	g := NewGateWithGrace(time.Millisecond)
	g.Begin()

	released := make(chan error, 1)
	go func() { released <- g.AwaitQuiet(context.Background()) }()

	select {
	case <-released:
		t.Fatal("AwaitQuiet returned while the gate was set")
	case <-time.After(30 * time.Millisecond):
	}

	g.End()
	select {
	case err := <-released:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AwaitQuiet did not return after the gate cleared")
	}
}

func TestAwaitQuietHonorsContext(t *testing.T) {
	g := NewGate()
	g.Begin()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := g.AwaitQuiet(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
