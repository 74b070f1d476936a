// ════════════════════════════════════════════════════════════════════════════════════════════════
// Reusable N-Party Barrier
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Thread Reuse Primitive (persistent-thread mode)
//
// Description:
//   A CAS-built rendezvous point used by the barrier-mode worker pool: workers park here at the
//   end of a frame and are released together at the start of the next, instead of being torn down
//   and recreated (§4.7 step 2, §5 "Suspension / blocking").
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package barrier

import (
	"github.com/fractalforge/dagsched/atomics"
)

// Barrier is a reusable, CAS-driven N-party rendezvous. Exactly one
// arriving goroutine per generation is told breaker=true and is
// responsible for resetting the arrival counter for the next generation.
// Waiters spin on the generation counter rather than a flip-flopping
// flag, so a party that has not yet reached Wait for the next generation
// can never observe a "release" that has already come and gone.
type Barrier struct {
	target     atomics.Word32 // goal arrival count for the current generation
	current    atomics.Word32 // arrivals so far this generation
	generation atomics.Word32 // bumped by exactly one party per completed generation
}

// New creates a barrier for the given number of parties. target must be
// >= 1.
func New(target uint32) *Barrier {
	b := &Barrier{}
	b.target.Store(target)
	return b
}

// SetThreadSyncCount reassigns the party count for the barrier's next
// generation. Must only be called between generations (i.e. not while
// any party is inside Wait). The scheduler itself never calls this on a
// live barrier pool — a change in party count also changes how many
// goroutines are parked on the barrier, so scheduler resizes go through
// a full teardown/rebuild instead (§4.9, §9). Kept as a primitive
// operation in its own right for callers that own both sides of that
// invariant themselves.
func (b *Barrier) SetThreadSyncCount(target uint32) {
	b.target.Store(target)
}

// Wait registers one arrival and blocks until every party for this
// generation has arrived. It returns breaker=true for exactly the one
// call that observed the final arrival and performed the generation
// reset; every other call returns breaker=false.
func (b *Barrier) Wait() (breaker bool) {
	gen := b.generation.Load()
	arrived := b.current.Add(1)
	target := b.target.Load()

	if arrived == target {
		b.current.Store(0)
		b.generation.Add(1)
		return true
	}

	for b.generation.Load() == gen {
	}
	return false
}
