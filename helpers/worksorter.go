// worksorter.go - a background work unit that re-sorts the main and
// affinity lists off the registrar thread and publishes the result for
// installation at the next frame boundary (§4.4, §4.7 step 4).

package helpers

import (
	"sort"

	"github.com/fractalforge/dagsched/scheduler"
	"github.com/fractalforge/dagsched/tss"
)

// WorkSorter snapshots the scheduler's current lists, re-sorts the
// snapshot by workunit.Key order, and publishes it back. Because it
// operates on its own copy, it can run concurrently with the rest of the
// frame's pool and affinity work without racing either list.
type WorkSorter struct {
	sched *scheduler.Scheduler
}

// NewWorkSorter returns a Runnable bound to sched. Register it in the
// pool (AddWorkUnit) with no dependencies so it can run any frame there
// is a free slot for it.
func NewWorkSorter(sched *scheduler.Scheduler) *WorkSorter {
	return &WorkSorter{sched: sched}
}

func (w *WorkSorter) Run(ts *tss.Storage) {
	main, affinity := w.sched.SnapshotForSort()
	sort.Slice(main, func(i, j int) bool { return main[i].Less(main[j]) })
	sort.Slice(affinity, func(i, j int) bool { return affinity[i].Less(affinity[j]) })
	w.sched.PublishSortedLists(main, affinity)
}
