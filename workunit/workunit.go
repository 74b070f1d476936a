// ════════════════════════════════════════════════════════════════════════════════════════════════
// WorkUnit: Lifecycle, Dependencies, and CAS Ownership
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: The Scheduled Unit of Work
//
// Description:
//   The running-state word holds only three of the four logical values {NotStarted, Running,
//   Complete}; Starting is a one-shot return value from TakeOwnership conveying "you now own
//   this", and is never stored. Ownership is acquired purely through atomics.Word32's CAS — the
//   core never takes a mutex on a WorkUnit (§4.1, §5).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package workunit

import (
	"sync/atomic"

	"github.com/fractalforge/dagsched/atomics"
	"github.com/fractalforge/dagsched/platform"
	"github.com/fractalforge/dagsched/rolling"
	"github.com/fractalforge/dagsched/tss"
)

// RunningState is the {NotStarted, Running, Complete} word governing
// ownership and readiness of a unit, plus the Starting sentinel returned
// (never stored) by TakeOwnership.
type RunningState uint32

const (
	NotStarted RunningState = 0
	Running    RunningState = 1
	Complete   RunningState = 2

	// Starting is TakeOwnership's "you own it, proceed" result. It is a
	// method return value only; the stored discriminant never holds it.
	Starting RunningState = 3
)

func (s RunningState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Complete:
		return "Complete"
	case Starting:
		return "Starting"
	default:
		return "Unknown"
	}
}

// Runnable is the capability a work unit's body must offer: run, given
// this thread's storage, for side effects only.
type Runnable interface {
	Run(ts *tss.Storage)
}

// Func adapts a plain function to Runnable.
type Func func(ts *tss.Storage)

func (f Func) Run(ts *tss.Storage) { f(ts) }

var nextID uint64

// WorkUnit is one piece of recurring work: an ordered dependency list, a
// rolling average of its last N execution times, a CAS-governed
// running-state, and a body.
type WorkUnit struct {
	id    uint64
	name  string
	state atomics.Word32
	avg   rolling.Average
	deps  []*WorkUnit
	body  Runnable
}

// New creates a work unit with the given name and body, using a ring
// rolling average of the given window by default.
func New(name string, window int, body Runnable) *WorkUnit {
	return &WorkUnit{
		id:   atomic.AddUint64(&nextID, 1),
		name: name,
		avg:  rolling.NewRing(window),
		body: body,
	}
}

// NewFunc is a convenience constructor taking a plain function body.
func NewFunc(name string, window int, fn func(ts *tss.Storage)) *WorkUnit {
	return New(name, window, Func(fn))
}

// ID is the unit's stable identity, used as WorkUnitKey's final
// tie-break and as the thing dependency edges reference.
func (u *WorkUnit) ID() uint64 { return u.id }

// Name is used for logging and debug display only; it plays no role in
// scheduling.
func (u *WorkUnit) Name() string { return u.name }

// AddDependency appends d to u's forward dependency list. Must not be
// called while any frame is executing (§4.1).
func (u *WorkUnit) AddDependency(d *WorkUnit) {
	u.deps = append(u.deps, d)
}

// RemoveDependency removes the first occurrence of d from u's dependency
// list, if present. Must not be called while any frame is executing.
func (u *WorkUnit) RemoveDependency(d *WorkUnit) {
	for i, dep := range u.deps {
		if dep == d {
			u.deps = append(u.deps[:i], u.deps[i+1:]...)
			return
		}
	}
}

// ClearDependencies empties u's dependency list. Must not be called
// while any frame is executing.
func (u *WorkUnit) ClearDependencies() {
	u.deps = nil
}

// Dependencies returns u's forward dependency list. Callers must not
// mutate the returned slice.
func (u *WorkUnit) Dependencies() []*WorkUnit {
	return u.deps
}

// IsEveryDependencyComplete scans u's dependency list and reports
// whether every one of them has running-state Complete.
func (u *WorkUnit) IsEveryDependencyComplete() bool {
	for _, d := range u.deps {
		if d.State() != Complete {
			return false
		}
	}
	return true
}

// State loads the current running-state.
func (u *WorkUnit) State() RunningState {
	return RunningState(u.state.Load())
}

// TakeOwnership attempts to claim u for execution. It returns NotStarted
// ("not yours") if any dependency is not yet Complete, or if the CAS
// from NotStarted to Running lost to another thread. It returns Starting
// on a successful CAS — a one-shot signal that the caller now owns u and
// must invoke it.
func (u *WorkUnit) TakeOwnership() RunningState {
	if !u.IsEveryDependencyComplete() {
		return NotStarted
	}
	if u.state.CompareAndSwap(uint32(NotStarted), uint32(Running)) {
		return Starting
	}
	return NotStarted
}

// Invoke runs u's body to completion on the calling thread, timestamping
// the invocation, recording it into the rolling average, writing the
// paired log fragments if ts carries a logger, and finally publishing
// Complete. The Complete store happens on every exit path, including a
// panicking body — the panic itself is never recovered here and
// continues to propagate and abort the frame (§4.1, §7, §9).
func (u *WorkUnit) Invoke(ts *tss.Storage) {
	begin := platform.NowMicros()
	if ts != nil && ts.Logger != nil {
		ts.Logger.WriteStart(u.name, ts.ThreadID, begin)
	}

	defer func() {
		end := platform.NowMicros()
		u.avg.Record(int64(end - begin))
		if ts != nil && ts.Logger != nil {
			ts.Logger.WriteEnd(u.name, ts.ThreadID, begin, end)
		}
		u.state.Store(uint32(Complete))
	}()

	u.body.Run(ts)
}

// PrepareForNextFrame unconditionally resets u's running-state to
// NotStarted. Called by the scheduler once per unit at the end of every
// frame.
func (u *WorkUnit) PrepareForNextFrame() {
	u.state.Store(uint32(NotStarted))
}

// AverageMicros returns the unit's current rolling-average execution
// time in microseconds.
func (u *WorkUnit) AverageMicros() int64 {
	return u.avg.Value()
}

// SortingKey builds u's WorkUnitKey from the supplied dependent count
// (computed by the scheduler's DependentGraph) and u's current rolling
// average.
func (u *WorkUnit) SortingKey(dependentCount int) Key {
	return Key{DependentCount: dependentCount, AverageMicros: u.avg.Value(), Unit: u}
}
