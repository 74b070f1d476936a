// lists.go - registration, the three work lists, and sorting (§4.3, §4.4).

package scheduler

import (
	"github.com/fractalforge/dagsched/monopoly"
	"github.com/fractalforge/dagsched/workunit"
)

// AddWorkUnit registers u in the general parallel pool. The scheduler
// takes ownership of u.
func (s *Scheduler) AddWorkUnit(u *workunit.WorkUnit) {
	s.assertNotFrameRunning()
	s.assertNotRegistered(u)
	s.main = append(s.main, u.SortingKey(0))
	s.registered[u] = kindMain
}

// AddWorkUnitAffinity registers u to run only on the scheduler's
// registrar thread.
func (s *Scheduler) AddWorkUnitAffinity(u *workunit.WorkUnit) {
	s.assertNotFrameRunning()
	s.assertNotRegistered(u)
	s.affinity = append(s.affinity, u.SortingKey(0))
	s.registered[u] = kindAffinity
}

// AddWorkUnitMonopoly registers m to run serially, in registration
// order, before any pool or affinity work in the frame.
func (s *Scheduler) AddWorkUnitMonopoly(m *monopoly.Unit) {
	s.assertNotFrameRunning()
	s.assertNotRegistered(m.WorkUnit)
	s.monopolies = append(s.monopolies, m)
	s.registered[m.WorkUnit] = kindMonopoly
}

// RemoveWorkUnit removes u from whichever of the three lists contains
// it. It does not touch dependency/dependent edges on surviving units —
// that remains the caller's responsibility (§4.3).
func (s *Scheduler) RemoveWorkUnit(u *workunit.WorkUnit) {
	s.assertNotFrameRunning()
	switch s.registered[u] {
	case kindMain:
		s.main = removeKey(s.main, u)
	case kindAffinity:
		s.affinity = removeKey(s.affinity, u)
	case kindMonopoly:
		for i, m := range s.monopolies {
			if m.WorkUnit == u {
				s.monopolies = append(s.monopolies[:i], s.monopolies[i+1:]...)
				break
			}
		}
	}
	delete(s.registered, u)
}

func removeKey(list []workunit.Key, u *workunit.WorkUnit) []workunit.Key {
	for i, k := range list {
		if k.Unit == u {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// SortWorkUnitsMain refreshes and sorts the main list. If
// updateDependentGraph is true the reverse-dependency cache is
// recomputed first from the current main+affinity lists.
func (s *Scheduler) SortWorkUnitsMain(updateDependentGraph bool) {
	if updateDependentGraph {
		s.UpdateDependentGraph()
	}
	sortKeys(s.main, s)
}

// SortWorkUnitsAffinity refreshes and sorts the affinity list between
// its own endpoints. spec.md's Open Questions note the original source
// mistakenly bounded this sort using the main list's end-iterator; this
// port always sorts the affinity list's own slice.
func (s *Scheduler) SortWorkUnitsAffinity(updateDependentGraph bool) {
	if updateDependentGraph {
		s.UpdateDependentGraph()
	}
	sortKeys(s.affinity, s)
}

// SortWorkUnitsAll sorts both lists, recomputing the dependent graph at
// most once.
func (s *Scheduler) SortWorkUnitsAll(updateDependentGraph bool) {
	if updateDependentGraph {
		s.UpdateDependentGraph()
	}
	sortKeys(s.main, s)
	sortKeys(s.affinity, s)
}
