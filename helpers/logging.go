// ════════════════════════════════════════════════════════════════════════════════════════════════
// LogBufferSwapper / LogAggregator
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Helper Work Units — Log Pipeline
//
// Description:
//   The two halves of §4.8's logging contract, expressed as ordinary work units instead of
//   scheduler-internal special cases: LogBufferSwapper flips every thread's usable/committable
//   buffers once every other logging unit this frame has finished (enforced by the caller wiring it
//   as a dependent of those units), and LogAggregator reads the swapped-out content and writes one
//   <Frame> element. Registering both as affinity units keeps the whole pipeline on the registrar
//   thread, avoiding any need to lock logsink.Buffers across threads.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package helpers

import (
	"github.com/fractalforge/dagsched/logsink"
	"github.com/fractalforge/dagsched/scheduler"
	"github.com/fractalforge/dagsched/tss"
)

// LogBufferSwapper is a work unit whose sole job is calling
// Scheduler.SwapAllLoggers. Wire it with a dependency on every unit in
// the frame that logs, so the swap only happens once they are all
// Complete.
type LogBufferSwapper struct {
	sched *scheduler.Scheduler
}

// NewLogBufferSwapper returns a Runnable bound to sched.
func NewLogBufferSwapper(sched *scheduler.Scheduler) *LogBufferSwapper {
	return &LogBufferSwapper{sched: sched}
}

func (w *LogBufferSwapper) Run(ts *tss.Storage) {
	w.sched.SwapAllLoggers()
}

// LogAggregator is a work unit that collects every thread's committed
// log content and writes it as one <Frame> element to the scheduler's
// configured log destination, optionally attaching a digest. Wire it
// with a dependency on the frame's LogBufferSwapper.
type LogAggregator struct {
	sched  *scheduler.Scheduler
	digest bool
}

// NewLogAggregator returns a Runnable bound to sched. When withDigest is
// true, each Frame element carries a SHA3-256 digest over its
// concatenated thread content (SPEC_FULL.md §3).
func NewLogAggregator(sched *scheduler.Scheduler, withDigest bool) *LogAggregator {
	return &LogAggregator{sched: sched, digest: withDigest}
}

func (a *LogAggregator) Run(ts *tss.Storage) {
	threads := a.sched.CommittedThreadLogs()
	var digest string
	if a.digest {
		digest = logsink.Digest(threads)
	}
	dest := a.sched.Log()
	if dest == nil {
		return
	}
	_ = logsink.WriteFrame(dest, a.sched.GetFrameCount(), threads, digest)
}
