// ════════════════════════════════════════════════════════════════════════════════════════════════
// Thread-Specific Storage
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Per-Worker Resource Bag
//
// Description:
//   Exactly what every worker carries: a logger and a way back to the scheduler that owns it. Kept
//   as its own package, separate from both workunit and scheduler, so neither has to import the
//   other to share this type (design note: "global-looking state must be threaded explicitly via
//   thread-specific storage").
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package tss

import "github.com/fractalforge/dagsched/logsink"

// Storage is the per-worker resource bag passed into every WorkUnit
// invocation. Owner holds the *scheduler.Scheduler that created this
// worker, stored as an opaque reference to avoid an import cycle between
// tss and scheduler; callers recover the concrete type with a type
// assertion.
type Storage struct {
	ThreadID string
	Logger   *logsink.Buffers
	Owner    any
	Extra    map[string]any
}

// New creates an empty thread storage bag for the given thread
// identifier and owner.
func New(threadID string, owner any) *Storage {
	return &Storage{
		ThreadID: threadID,
		Logger:   &logsink.Buffers{},
		Owner:    owner,
		Extra:    make(map[string]any),
	}
}
