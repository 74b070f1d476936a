// ════════════════════════════════════════════════════════════════════════════════════════════════
// Frame Execution State Machine
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Per-Frame Driver
//
// Description:
//   DoOneFrame walks the six steps §4.7 lays out: run every monopoly serially on the calling
//   (registrar) thread, release or spawn the pool workers, run the registrar's own affinity loop,
//   join the pool back, reset every unit for the next frame, then pace to the target frame length.
//   The calling goroutine acts as the registrar for that frame: it runs the monopolies and the
//   affinity list. Which goroutine calls DoOneFrame is not recorded or checked.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package scheduler

import (
	"fmt"

	"github.com/fractalforge/dagsched/barrier"
	"github.com/fractalforge/dagsched/platform"
	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

// DoOneFrame runs one complete frame: monopolies, the parallel pool
// phase, the registrar's affinity phase, the join, the per-unit reset,
// and (if frame pacing is enabled) the sleep that pads out to
// targetFrameLength.
func (s *Scheduler) DoOneFrame() {
	s.currentFrameStart = platform.NowMicros()
	s.frameRunning = true

	s.runAllMonopolies()
	s.createThreads()
	s.runMainThreadWork()
	s.joinAllThreads()
	s.resetAllWorkUnits()

	s.frameRunning = false
	s.frameCount++
	s.waitUntilNextFrame()
}

// runAllMonopolies invokes every registered monopoly, in registration
// order, serially on the registrar thread, before any pool or affinity
// work is allowed to start (§4.10).
func (s *Scheduler) runAllMonopolies() {
	for _, m := range s.monopolies {
		if m.DesiredThreadCount() > s.currentThreadCount {
			s.cfg.Diag.Warn("monopoly requests more threads than available",
				"unit", m.Name(), "desired", m.DesiredThreadCount(), "have", s.currentThreadCount)
		}
		m.TakeOwnership()
		m.Invoke(s.mainStorage)
	}
}

// createThreads brings the pool workers online for this frame: in
// PerFrameThreads mode it spawns currentThreadCount-1 fresh goroutines;
// in BarrierThreads mode it reconciles the persistent pool against the
// current thread count — rebuilding it if the desired helper count has
// changed since the last frame — and then releases the parked workers
// past their start barrier. This is the only point in a frame where the
// pool is touched, and it only ever runs between generations: the
// previous frame's joinAllThreads already waited for every party to
// clear endBarrier before DoOneFrame returned, so no worker is parked
// mid-Wait when a resize lands here (§4.7 step 2).
func (s *Scheduler) createThreads() {
	helpers := s.currentThreadCount - 1

	if helpers < 1 {
		s.resources = nil
		if s.barrierUp {
			s.teardownBarrierPool()
		}
		return
	}

	switch s.threadMode {
	case PerFrameThreads:
		s.resources = make([]*tss.Storage, helpers)
		s.perFrameThreads = make([]*platform.Thread, helpers)
		for i := 0; i < helpers; i++ {
			ts := tss.New(fmt.Sprintf("pool-%d", i), s)
			s.resources[i] = ts
			s.perFrameThreads[i] = platform.StartThread(func() {
				s.poolWorkerLoop(ts)
			})
		}
	case BarrierThreads:
		if s.barrierUp && s.barrierHelperCount != helpers {
			// The barrier's target and the number of goroutines parked
			// on it must change together: retargeting one without the
			// other leaves a generation that can never see exactly
			// target arrivals. Tearing the pool down and rebuilding it
			// at the new size keeps both in lockstep.
			s.teardownBarrierPool()
		}
		if !s.barrierUp {
			s.startBarrierPool(helpers)
		}
		s.startBarrier.Wait()
	}
}

// teardownBarrierPool releases a previously built persistent pool,
// whether because the thread count dropped to 1 (no helpers left to
// park) or because the helper count changed and the pool must be rebuilt
// at its new size. A later frame that wants helpers again simply builds
// a fresh pool via startBarrierPool.
func (s *Scheduler) teardownBarrierPool() {
	s.stopping.Store(1)
	s.startBarrier.Wait()
	s.barrierWG.Wait()
	s.barrierUp = false
	s.barrierHelperCount = 0
	s.stopping.Store(0)
}

// startBarrierPool spawns a fresh persistent pool of exactly helpers
// workers, each parked between frames on the start/end barrier pair.
func (s *Scheduler) startBarrierPool(helpers int) {
	s.startBarrier = barrier.New(uint32(helpers + 1))
	s.endBarrier = barrier.New(uint32(helpers + 1))
	s.resources = make([]*tss.Storage, helpers)
	s.barrierUp = true
	s.barrierHelperCount = helpers
	s.barrierWG.Add(helpers)

	for i := 0; i < helpers; i++ {
		ts := tss.New(fmt.Sprintf("pool-%d", i), s)
		s.resources[i] = ts
		core := i
		go func() {
			defer s.barrierWG.Done()
			platform.PinToCPU(core)
			for {
				s.startBarrier.Wait()
				if s.stopping.Load() == 1 {
					// Close() releases startBarrier but never calls
					// endBarrier.Wait itself, so workers must not wait
					// on it either during teardown.
					return
				}
				s.poolWorkerDrain(ts)
				s.endBarrier.Wait()
			}
		}()
	}
}

// runMainThreadWork is the registrar's own contribution to the frame: it
// drains the affinity list (falling back to the pool list once affinity
// work runs dry) exactly like a pool worker, using the scheduler's
// dedicated main-thread storage.
func (s *Scheduler) runMainThreadWork() {
	for !s.AreAllWorkUnitsComplete() {
		u := s.GetNextWorkUnitAffinity()
		if u == nil {
			continue
		}
		if u.TakeOwnership() != workunit.Starting {
			continue
		}
		u.Invoke(s.mainStorage)
	}
}

// joinAllThreads waits for every pool worker to finish this frame's
// work, then installs any sorted lists a WorkSorter helper published
// during the frame.
func (s *Scheduler) joinAllThreads() {
	switch s.threadMode {
	case PerFrameThreads:
		for _, t := range s.perFrameThreads {
			t.Join()
		}
		s.perFrameThreads = nil
	case BarrierThreads:
		if s.barrierUp {
			s.endBarrier.Wait()
		}
	}

	if pending := s.pendingSorted.Swap(nil); pending != nil {
		s.main = pending.main
		s.affinity = pending.affinity
	}
}

// resetAllWorkUnits returns every registered unit (pool, affinity, and
// monopoly) to NotStarted and zeroes both decache indices, readying the
// scheduler for the next frame (§4.7 step 5).
func (s *Scheduler) resetAllWorkUnits() {
	for _, k := range s.main {
		k.Unit.PrepareForNextFrame()
	}
	for _, k := range s.affinity {
		k.Unit.PrepareForNextFrame()
	}
	for _, m := range s.monopolies {
		m.PrepareForNextFrame()
	}
	s.decacheMain.Store(0)
	s.decacheAffinity.Store(0)
}

// waitUntilNextFrame paces the loop to targetFrameLength when pacing is
// enabled. It accumulates a timingCostAllowance: the amount the previous
// frame overshot its budget is subtracted (gain 1) from the next sleep
// instead of being silently dropped, so a single long frame does not
// compound into permanent drift relative to the wall clock (§4.7 step 6,
// Open Questions).
func (s *Scheduler) waitUntilNextFrame() {
	if s.targetFrameLength <= 0 {
		return
	}
	elapsed := int64(platform.NowMicros() - s.currentFrameStart)
	budget := s.targetFrameLength - elapsed - s.timingCostAllowance

	if budget <= 0 {
		s.timingCostAllowance = -budget
		return
	}
	platform.SleepMicros(budget)
	actualSlept := int64(platform.NowMicros()-s.currentFrameStart) - elapsed
	s.timingCostAllowance = actualSlept - budget
	if s.timingCostAllowance < 0 {
		s.timingCostAllowance = 0
	}
}

// poolWorkerLoop is a PerFrameThreads worker's entire lifetime: pull,
// invoke, repeat until the frame has no more work for it.
func (s *Scheduler) poolWorkerLoop(ts *tss.Storage) {
	s.poolWorkerDrain(ts)
}

// poolWorkerDrain is the draining body shared by both thread topologies:
// spin pulling from the pool list until every main+affinity unit is
// Complete. A failed pull never means "done" by itself — only
// AreAllWorkUnitsComplete does — because a unit this worker cannot yet
// see as ready may become ready the instant a dependency elsewhere
// finishes (§4.6).
func (s *Scheduler) poolWorkerDrain(ts *tss.Storage) {
	for !s.AreAllWorkUnitsComplete() {
		u := s.GetNextWorkUnit()
		if u == nil {
			continue
		}
		if u.TakeOwnership() != workunit.Starting {
			continue
		}
		u.Invoke(ts)
	}
}
