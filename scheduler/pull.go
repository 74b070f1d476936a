// pull.go - work pulling and the decache scanning optimization (§4.5).

package scheduler

import (
	"github.com/fractalforge/dagsched/atomics"
	"github.com/fractalforge/dagsched/workunit"
)

// GetNextWorkUnit scans the main list from highest priority (the tail)
// to lowest, returning the first unit that is NotStarted with every
// dependency Complete, or nil if none qualifies right now.
func (s *Scheduler) GetNextWorkUnit() *workunit.WorkUnit {
	return s.scanList(s.main, &s.decacheMain)
}

// GetNextWorkUnitAffinity is GetNextWorkUnit but checks the affinity
// list first; only the registrar goroutine should call this.
func (s *Scheduler) GetNextWorkUnitAffinity() *workunit.WorkUnit {
	if u := s.scanList(s.affinity, &s.decacheAffinity); u != nil {
		return u
	}
	return s.GetNextWorkUnit()
}

// scanList implements the highest-priority-first scan with the optional
// decache-index hint. The index only ever grows within a frame, is reset
// to zero by ResetAllWorkUnits, and is purely a scanning shortcut: it is
// never treated as a license to skip a unit whose dependencies are not
// yet satisfied (§4.5).
func (s *Scheduler) scanList(list []workunit.Key, decache *atomics.Word32) *workunit.WorkUnit {
	lo := 0
	if s.cfg.DecacheEnabled {
		lo = int(decache.Load())
		if lo > len(list) {
			lo = len(list)
		}
	}

	for i := len(list) - 1; i >= lo; i-- {
		u := list[i].Unit
		if u.State() == workunit.NotStarted && u.IsEveryDependencyComplete() {
			return u
		}
	}

	if s.cfg.DecacheEnabled {
		s.advanceDecache(list, decache, lo)
	}
	return nil
}

// advanceDecache extends the Complete prefix starting at from as far as
// it currently reaches, then CASes the index forward to that point. A
// losing CAS means another thread already advanced at least as far, so
// it is simply abandoned.
func (s *Scheduler) advanceDecache(list []workunit.Key, decache *atomics.Word32, from int) {
	i := from
	for i < len(list) && list[i].Unit.State() == workunit.Complete {
		i++
	}
	if i <= from {
		return
	}
	for {
		cur := decache.Load()
		if int(cur) >= i {
			return
		}
		if decache.CompareAndSwap(cur, uint32(i)) {
			return
		}
	}
}

// AreAllWorkUnitsComplete reports whether every unit in both the main
// and affinity lists has reached running-state Complete. This is the
// termination condition both worker loops check.
func (s *Scheduler) AreAllWorkUnitsComplete() bool {
	for _, k := range s.main {
		if k.Unit.State() != workunit.Complete {
			return false
		}
	}
	for _, k := range s.affinity {
		if k.Unit.State() != workunit.Complete {
			return false
		}
	}
	return true
}
