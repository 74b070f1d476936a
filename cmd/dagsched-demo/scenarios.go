// scenarios.go - the canonical dependency-graph shapes the demo drives:
// chain and diamond (the same shapes scheduler_test.go exercises) plus a
// wide fan-out.

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fractalforge/dagsched/scheduler"
	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

// scenarioFunc registers a sample workload onto sched and returns
// nothing; the demo loop then just calls sched.DoOneFrame repeatedly.
type scenarioFunc func(sched *scheduler.Scheduler)

var scenarios = map[string]scenarioFunc{
	"chain":   buildChain,
	"diamond": buildDiamond,
	"fanout":  buildFanout,
}

func simulateWork() func(ts *tss.Storage) {
	return func(ts *tss.Storage) {
		time.Sleep(time.Duration(200+rand.Intn(800)) * time.Microsecond)
	}
}

// buildChain registers A -> B -> C -> D, a strictly serial dependency
// chain with no available parallelism.
func buildChain(sched *scheduler.Scheduler) {
	var prev *workunit.WorkUnit
	for _, name := range []string{"A", "B", "C", "D"} {
		u := workunit.NewFunc(name, 32, simulateWork())
		if prev != nil {
			u.AddDependency(prev)
		}
		sched.AddWorkUnit(u)
		prev = u
	}
}

// buildDiamond registers the classic A -> {B, C} -> D diamond: B and C
// can run in parallel once A completes, D waits on both.
func buildDiamond(sched *scheduler.Scheduler) {
	a := workunit.NewFunc("A", 32, simulateWork())
	b := workunit.NewFunc("B", 32, simulateWork())
	c := workunit.NewFunc("C", 32, simulateWork())
	d := workunit.NewFunc("D", 32, simulateWork())

	b.AddDependency(a)
	c.AddDependency(a)
	d.AddDependency(b)
	d.AddDependency(c)

	sched.AddWorkUnit(a)
	sched.AddWorkUnit(b)
	sched.AddWorkUnit(c)
	sched.AddWorkUnit(d)
}

// buildFanout registers one root and sixteen independent leaves that all
// depend on it but not on each other, exercising wide parallelism.
func buildFanout(sched *scheduler.Scheduler) {
	root := workunit.NewFunc("root", 32, simulateWork())
	sched.AddWorkUnit(root)

	for i := 0; i < 16; i++ {
		leaf := workunit.NewFunc(fmt.Sprintf("leaf-%d", i), 32, simulateWork())
		leaf.AddDependency(root)
		sched.AddWorkUnit(leaf)
	}
}
