// ════════════════════════════════════════════════════════════════════════════════════════════════
// MonopolyWorkUnit
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Whole-Process Integration Unit
//
// Description:
//   A work unit variant granted every thread for the duration of its invocation, run serially on
//   the main thread before any pool or affinity work starts (§4.10). It is free to spin up and
//   join its own worker threads internally; the scheduler only ever calls it from the main thread.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package monopoly

import (
	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

// Body is a monopoly's internal parallel work, given the thread storage
// of the main thread that invoked it and the thread count it declared it
// wants.
type Body func(ts *tss.Storage, threadCount int)

// Unit is a WorkUnit that also declares a desired thread count. The
// scheduler never schedules it through the pool or affinity lists — it
// is invoked directly, in registration order, by RunAllMonopolies.
type Unit struct {
	*workunit.WorkUnit
	desiredThreads int
}

// New creates a monopoly work unit. desiredThreads is advisory: the
// scheduler logs when it exceeds the current thread count, but never
// refuses to run the monopoly on that basis (§4.10, SPEC_FULL.md §4.6).
func New(name string, window int, desiredThreads int, body Body) *Unit {
	m := &Unit{desiredThreads: desiredThreads}
	m.WorkUnit = workunit.New(name, window, workunit.Func(func(ts *tss.Storage) {
		body(ts, m.desiredThreads)
	}))
	return m
}

// DesiredThreadCount reports how many threads this monopoly would like
// to have available for its internal parallel body.
func (m *Unit) DesiredThreadCount() int {
	return m.desiredThreads
}
