// ════════════════════════════════════════════════════════════════════════════════════════════════
// Options
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Configuration Surface
//
// Description:
//   The configuration an operator hands to cmd/dagsched-demo (or any embedder), decoded from an
//   optional JSON file via sonnet and validated with every problem collected into a single
//   multierror.Error rather than failing on the first one (grounded on safing-portmaster's
//   plugin/module.go loadPlugins pattern).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sugawarayuuta/sonnet"

	"github.com/fractalforge/dagsched/scheduler"
)

// Options is the full set of knobs a caller can set before constructing
// a Scheduler. Every field has a sensible zero value. Load leaves a 0
// ThreadCount as it is; the demo's run command then keeps
// scheduler.DefaultConfig's one-thread-per-logical-core count.
type Options struct {
	ThreadCount       int    `json:"threadCount"`
	FrameRateFPS      int    `json:"frameRateFPS"`
	ThreadMode        string `json:"threadMode"` // "per-frame" or "barrier"
	DecacheEnabled    bool   `json:"decacheEnabled"`
	LogPath           string `json:"logPath"`
	StatsDB           string `json:"statsDB"`           // empty disables telemetry
	StatsSampleEvery  int    `json:"statsSampleEvery"`  // frames between samples, default 60
	LogDigestEnabled  bool   `json:"logDigestEnabled"`
}

// Default returns the zero-overhead configuration: one thread per
// logical core, no frame-rate cap, per-frame thread creation, decache
// enabled, logging to stdout, telemetry disabled.
func Default() Options {
	return Options{
		ThreadMode:       "per-frame",
		DecacheEnabled:   true,
		StatsSampleEvery: 60,
	}
}

// Load reads path (if non-empty) as a JSON-encoded Options, merges it
// over Default, and validates the result. An empty path is not an
// error — it simply yields the default configuration.
func Load(path string) (Options, error) {
	opts := Default()
	if path == "" {
		return opts, opts.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := sonnet.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return opts, opts.Validate()
}

// Validate collects every problem with o into a single error instead of
// stopping at the first one, matching safing-portmaster's loadPlugins
// convention of accumulating into a multierror.Error.
func (o Options) Validate() error {
	var errs *multierror.Error

	if o.ThreadCount < 0 {
		errs = multierror.Append(errs, fmt.Errorf("threadCount must be >= 0, got %d", o.ThreadCount))
	}
	if o.FrameRateFPS < 0 {
		errs = multierror.Append(errs, fmt.Errorf("frameRateFPS must be >= 0, got %d", o.FrameRateFPS))
	}
	switch o.ThreadMode {
	case "", "per-frame", "barrier":
	default:
		errs = multierror.Append(errs, fmt.Errorf("threadMode must be \"per-frame\" or \"barrier\", got %q", o.ThreadMode))
	}
	if o.StatsSampleEvery < 0 {
		errs = multierror.Append(errs, fmt.Errorf("statsSampleEvery must be >= 0, got %d", o.StatsSampleEvery))
	}

	return errs.ErrorOrNil()
}

// ThreadModeValue translates the JSON-friendly string form into a
// scheduler.ThreadMode, defaulting to PerFrameThreads for an empty or
// unrecognized value (Validate should have already rejected the latter).
func (o Options) ThreadModeValue() scheduler.ThreadMode {
	if o.ThreadMode == "barrier" {
		return scheduler.BarrierThreads
	}
	return scheduler.PerFrameThreads
}
