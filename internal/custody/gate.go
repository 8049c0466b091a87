package custody

import "sync/atomic"

// reentrancyGate is the mutual-exclusion flag wrapping the withdrawal
// critical section. Entry is check-and-set; release happens unconditionally
// on every exit path (deferred in the caller). A rejected entry has no side
// effects.
type reentrancyGate struct {
	locked atomic.Bool
}

func (g *reentrancyGate) enter() bool {
	return g.locked.CompareAndSwap(false, true)
}

func (g *reentrancyGate) exit() {
	g.locked.Store(false)
}
