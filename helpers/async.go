// ════════════════════════════════════════════════════════════════════════════════════════════════
// AsyncWorkUnit
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Helper Work Units — Async Polling Contract
//
// Description:
//   IsWorkDone exposes a unit's own long-running progress from outside the frame machinery: a
//   dependent can poll it without taking ownership of the unit itself. The scheduler's own
//   Complete/NotStarted/Running state is the authority the frame machine consults; IsWorkDone is
//   an informational view a caller reads on its own schedule (§4.11).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package helpers

import (
	"github.com/fractalforge/dagsched/workunit"
)

// AsyncWorkUnit is a Runnable that also reports its own running-state for
// polling outside the frame machine, e.g. from a UI thread deciding
// whether to show a loading spinner.
type AsyncWorkUnit interface {
	workunit.Runnable
	IsWorkDone() workunit.RunningState
}
