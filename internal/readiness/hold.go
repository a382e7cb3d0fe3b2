package readiness

import (
	"sync"
	"time"

	"github.com/zawodev/zawomons/internal/game"
)

// HoldGate turns a sustained "ready" gesture into a single commit. Each
// party accumulates held time independently; releasing before the
// threshold discards the accumulation without committing anything.
type HoldGate struct {
	threshold time.Duration

	mu    sync.Mutex
	held  [2]time.Duration
	fired [2]bool
}

func NewHoldGate(threshold time.Duration) *HoldGate {
	return &HoldGate{threshold: threshold}
}

func (g *HoldGate) Threshold() time.Duration { return g.threshold }

// Hold adds elapsed to the party's accumulator and reports whether the
// threshold was crossed by this call. It reports true at most once until
// the party is released or the gate is reset.
func (g *HoldGate) Hold(party game.PartyID, elapsed time.Duration) bool {
	if !party.Valid() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fired[party] {
		return false
	}
	if elapsed > 0 {
		g.held[party] += elapsed
	}
	if g.held[party] >= g.threshold {
		g.fired[party] = true
		return true
	}
	return false
}

// Held returns the party's accumulated time.
func (g *HoldGate) Held(party game.PartyID) time.Duration {
	if !party.Valid() {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[party]
}

// Release zeroes the party's accumulator.
func (g *HoldGate) Release(party game.PartyID) {
	if !party.Valid() {
		return
	}
	g.mu.Lock()
	g.held[party] = 0
	g.fired[party] = false
	g.mu.Unlock()
}

// Reset releases both parties.
func (g *HoldGate) Reset() {
	g.mu.Lock()
	g.held = [2]time.Duration{}
	g.fired = [2]bool{}
	g.mu.Unlock()
}
