// ════════════════════════════════════════════════════════════════════════════════════════════════
// 32-bit Compare-And-Swap Primitive
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Lock-Free Ownership Primitive
//
// Description:
//   Single CAS operation the rest of the scheduler core builds on: WorkUnit ownership
//   acquisition (§4.1) and the reusable Barrier (§4.9) are both expressed purely in terms of
//   this one primitive, with no mutexes on the hot path.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package atomics

import "sync/atomic"

// Word32 is the single CAS-governed word the scheduler core mutates
// concurrently: a WorkUnit's running-state, or a Barrier's arrival
// counter.
type Word32 struct {
	v uint32
}

// Load reads the current value with acquire semantics: later code that
// observes a given value also observes every write that happened-before
// the store which produced it.
//
//go:nosplit
//go:inline
func (w *Word32) Load() uint32 {
	return atomic.LoadUint32(&w.v)
}

// Store unconditionally writes a new value with release semantics.
// Used by WorkUnit.PrepareForNextFrame, which does not need CAS because
// no frame is executing when it runs.
//
//go:nosplit
//go:inline
func (w *Word32) Store(val uint32) {
	atomic.StoreUint32(&w.v, val)
}

// CompareAndSwap attempts old -> new and reports whether it succeeded.
// On success, the store has release semantics; a subsequent Load by any
// other goroutine that observes the new value also observes every write
// that happened-before this call, which is the exact guarantee
// TakeOwnership's Complete-before-TakeOwnership-succeeds ordering (§5)
// depends on.
//
//go:nosplit
//go:inline
func (w *Word32) CompareAndSwap(old, new uint32) bool {
	return atomic.CompareAndSwapUint32(&w.v, old, new)
}

// Add atomically increments the word by delta and returns the new value.
// Used by Barrier.Wait to register an arrival.
//
//go:nosplit
//go:inline
func (w *Word32) Add(delta uint32) uint32 {
	return atomic.AddUint32(&w.v, delta)
}
