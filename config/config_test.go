package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalforge/dagsched/scheduler"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	bad := Options{ThreadCount: -1, FrameRateFPS: -5, ThreadMode: "sideways", StatsSampleEvery: -1}
	err := bad.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, want a multierror")
	}
	if got := err.Error(); len(got) == 0 {
		t.Fatalf("Validate().Error() returned empty message")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("Validate() returned %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 4 {
		t.Fatalf("Validate() collected %d errors, want 4 (one per invalid field)", len(merr.Errors))
	}
}

func TestLoadEmptyPathYieldsDefault(t *testing.T) {
	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if opts.ThreadMode != "per-frame" {
		t.Fatalf("Load(\"\").ThreadMode = %q, want per-frame", opts.ThreadMode)
	}
}

func TestLoadFromJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"threadCount": 3, "threadMode": "barrier", "frameRateFPS": 60}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Options{
		ThreadCount:      3,
		FrameRateFPS:     60,
		ThreadMode:       "barrier",
		DecacheEnabled:   true,
		StatsSampleEvery: 60,
	}, opts)
}

func TestThreadModeValue(t *testing.T) {
	if got := (Options{ThreadMode: "barrier"}).ThreadModeValue(); got != scheduler.BarrierThreads {
		t.Fatalf("ThreadModeValue() = %v, want BarrierThreads", got)
	}
	if got := (Options{ThreadMode: "per-frame"}).ThreadModeValue(); got != scheduler.PerFrameThreads {
		t.Fatalf("ThreadModeValue() = %v, want PerFrameThreads", got)
	}
	if got := (Options{}).ThreadModeValue(); got != scheduler.PerFrameThreads {
		t.Fatalf("ThreadModeValue() with empty mode = %v, want PerFrameThreads default", got)
	}
}
