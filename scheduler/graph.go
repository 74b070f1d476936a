// graph.go - the reverse-dependency cache and dependent-count queries (§4.2).

package scheduler

import (
	"sort"

	"github.com/fractalforge/dagsched/workunit"
)

// UpdateDependentGraph recomputes the reverse-dependency cache by
// walking both the main and affinity lists: for each unit U and each of
// U's dependencies D, U is inserted into DependentGraph[D].
func (s *Scheduler) UpdateDependentGraph() {
	for k := range s.dependentGraph {
		delete(s.dependentGraph, k)
	}
	s.walkInsertEdges(s.main)
	s.walkInsertEdges(s.affinity)
}

func (s *Scheduler) walkInsertEdges(list []workunit.Key) {
	for _, k := range list {
		u := k.Unit
		for _, d := range u.Dependencies() {
			set, ok := s.dependentGraph[d]
			if !ok {
				set = make(map[*workunit.WorkUnit]struct{})
				s.dependentGraph[d] = set
			}
			set[u] = struct{}{}
		}
	}
}

// DependentCountOf returns the transitive number of work units that
// cannot start until u finishes: |DependentGraph[u]| plus the recursive
// sum over its members. If cached is false the dependent graph is
// recomputed first.
func (s *Scheduler) DependentCountOf(u *workunit.WorkUnit, cached bool) int {
	if !cached {
		s.UpdateDependentGraph()
	}
	var visiting map[*workunit.WorkUnit]bool
	if debugBuild {
		visiting = make(map[*workunit.WorkUnit]bool)
	}
	return s.dependentCountRecursive(u, visiting)
}

func (s *Scheduler) dependentCountRecursive(u *workunit.WorkUnit, visiting map[*workunit.WorkUnit]bool) int {
	if debugBuild {
		if visiting[u] {
			panic("dagsched: cyclic work unit dependency detected")
		}
		visiting[u] = true
		defer delete(visiting, u)
	}
	direct := s.dependentGraph[u]
	count := len(direct)
	for d := range direct {
		count += s.dependentCountRecursive(d, visiting)
	}
	return count
}

// sortKeys refreshes every entry's key against the scheduler's current
// dependent-graph cache and rolling averages, then sorts the slice
// ascending by WorkUnitKey, in place.
func sortKeys(list []workunit.Key, s *Scheduler) {
	for i, k := range list {
		count := s.DependentCountOf(k.Unit, true)
		list[i] = k.Unit.SortingKey(count)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Less(list[j]) })
}
