// accessors.go - the narrow surface helper work units are allowed to use
// (LogBufferSwapper, LogAggregator, WorkSorter in the helpers package).
// Nothing in this file is needed by ordinary application work units.

package scheduler

import (
	"github.com/fractalforge/dagsched/logsink"
	"github.com/fractalforge/dagsched/workunit"
)

// SwapAllLoggers exchanges usable/committable on every thread's logger —
// the registrar's own storage plus every pool worker's — for the
// LogBufferSwapper helper. Must run after every logging unit for the
// frame has completed, which the helper enforces via a dependency edge,
// not this method (§4.8).
func (s *Scheduler) SwapAllLoggers() {
	s.mainStorage.Logger.Swap()
	for _, r := range s.resources {
		r.Logger.Swap()
	}
}

// CommittedThreadLogs snapshots every thread's committable buffer as a
// ThreadLog, for LogAggregator to hand to logsink.WriteFrame, then resets
// each committable buffer so a thread that logs nothing next frame
// reports empty rather than stale content.
func (s *Scheduler) CommittedThreadLogs() []logsink.ThreadLog {
	logs := make([]logsink.ThreadLog, 0, len(s.resources)+1)
	logs = append(logs, logsink.ThreadLog{ID: s.mainStorage.ThreadID, Content: s.mainStorage.Logger.Committable()})
	s.mainStorage.Logger.ResetCommittable()
	for _, r := range s.resources {
		logs = append(logs, logsink.ThreadLog{ID: r.ThreadID, Content: r.Logger.Committable()})
		r.Logger.ResetCommittable()
	}
	return logs
}

// SnapshotForSort returns copies of the current main and affinity lists
// for a WorkSorter helper to re-sort off of the registrar thread, in
// parallel with the rest of the frame. The copies are safe to mutate and
// sort independently; installing the result back is PublishSortedLists's
// job.
func (s *Scheduler) SnapshotForSort() (main, affinity []workunit.Key) {
	main = append([]workunit.Key(nil), s.main...)
	affinity = append([]workunit.Key(nil), s.affinity...)
	return main, affinity
}

// PublishSortedLists stages a freshly re-sorted pair of lists for
// installation. JoinAllThreads installs the most recently published pair
// at the next frame boundary it reaches; a WorkSorter that publishes more
// than once before the next boundary simply overwrites its own earlier
// submission.
func (s *Scheduler) PublishSortedLists(main, affinity []workunit.Key) {
	s.pendingSorted.Store(&sortedLists{main: main, affinity: affinity})
}

// RegisteredUnits returns every work unit currently registered in the
// pool or affinity lists (monopolies excluded, since they are not keyed
// by workunit.Key), for a telemetry.Source closure to sample.
func (s *Scheduler) RegisteredUnits() []*workunit.WorkUnit {
	units := make([]*workunit.WorkUnit, 0, len(s.main)+len(s.affinity))
	for _, k := range s.main {
		units = append(units, k.Unit)
	}
	for _, k := range s.affinity {
		units = append(units, k.Unit)
	}
	return units
}
