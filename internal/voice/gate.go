// Package voice owns the output path: the turn-taking gate that keeps the
// capture side from transcribing the assistant's own speech, and the
// speaker that funnels every outbound message through it.
package voice

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultGrace is the trailing interval the gate stays set after audio
// output ends, covering hardware and pipeline latency.
const DefaultGrace = 250 * time.Millisecond

const pollInterval = 10 * time.Millisecond

// Gate is the shared signal between the output and capture paths. The
// flag is true exactly while output is being produced.
type Gate struct {
	speaking atomic.Bool
	grace    time.Duration
}

// NewGate creates a gate with the default trailing grace interval.
func NewGate() *Gate {
	return &Gate{grace: DefaultGrace}
}

// NewGateWithGrace creates a gate with a custom grace interval.
func NewGateWithGrace(grace time.Duration) *Gate {
	return &Gate{grace: grace}
}

// Begin marks output as in progress.
func (g *Gate) Begin() {
	g.speaking.Store(true)
}

// End holds the flag through the grace interval, then clears it. Callers
// must pair it with Begin via defer so the gate is released on every exit
// path.
func (g *Gate) End() {
	time.Sleep(g.grace)
	g.speaking.Store(false)
}

// Speaking reports whether output is currently in progress.
func (g *Gate) Speaking() bool {
	return g.speaking.Load()
}

// AwaitQuiet blocks until the gate is clear, so a capture attempt never
// starts while the assistant is speaking.
func (g *Gate) AwaitQuiet(ctx context.Context) error {
	if !g.speaking.Load() {
		return nil
	}
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for g.speaking.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
	return nil
}
