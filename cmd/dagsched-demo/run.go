// run.go - wires an Options value into a live scheduler.Scheduler,
// installs the logging and (optional) telemetry helper work units, and
// drives it for a fixed number of frames.

package main

import (
	"log/slog"
	"os"

	"github.com/fractalforge/dagsched/config"
	"github.com/fractalforge/dagsched/helpers"
	"github.com/fractalforge/dagsched/scheduler"
	"github.com/fractalforge/dagsched/telemetry"
	"github.com/fractalforge/dagsched/workunit"
)

func runScenario(logger *slog.Logger, opts config.Options, build scenarioFunc, frames int) error {
	dest, ownsDest, err := openLogDestination(opts.LogPath)
	if err != nil {
		return err
	}

	cfg := scheduler.DefaultConfig(dest)
	cfg.Diag = logger
	cfg.OwnsLogDestination = ownsDest
	cfg.DecacheEnabled = opts.DecacheEnabled
	cfg.ThreadMode = opts.ThreadModeValue()
	if opts.ThreadCount > 0 {
		cfg.ThreadCount = opts.ThreadCount
	}

	sched := scheduler.New(cfg)
	if opts.FrameRateFPS > 0 {
		sched.SetFrameRate(opts.FrameRateFPS)
	}
	defer sched.Close()

	build(sched)
	installLoggingPipeline(sched, opts.LogDigestEnabled)

	if opts.StatsDB != "" {
		recorder, err := telemetry.Open(opts.StatsDB, opts.StatsSampleEvery, sched.RegisteredUnits)
		if err != nil {
			return err
		}
		defer recorder.Close()
		sched.AddWorkUnitAffinity(newRecorderUnit(recorder))
	}

	sched.SortWorkUnitsAll(true)

	logger.Info("running scenario", "frames", frames, "threads", sched.GetThreadCount(), "threadMode", opts.ThreadMode)
	for i := 0; i < frames; i++ {
		sched.DoOneFrame()
	}
	logger.Info("scenario complete", "framesRun", sched.GetFrameCount())
	return nil
}

// installLoggingPipeline wires LogBufferSwapper and LogAggregator as
// affinity units, with the swapper depending on every currently
// registered unit so the buffers only flip once the frame's real work
// has finished (§4.8).
func installLoggingPipeline(sched *scheduler.Scheduler, withDigest bool) {
	swapper := workunit.New("log-buffer-swapper", 8, helpers.NewLogBufferSwapper(sched))
	for _, u := range sched.RegisteredUnits() {
		swapper.AddDependency(u)
	}

	aggregator := workunit.New("log-aggregator", 8, helpers.NewLogAggregator(sched, withDigest))
	aggregator.AddDependency(swapper)

	sched.AddWorkUnitAffinity(swapper)
	sched.AddWorkUnitAffinity(aggregator)
}

func newRecorderUnit(r *telemetry.StatsRecorder) *workunit.WorkUnit {
	return workunit.New("stats-recorder", 8, r)
}

func openLogDestination(path string) (*os.File, bool, error) {
	if path == "" {
		return os.Stdout, false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}
