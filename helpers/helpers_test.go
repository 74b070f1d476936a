package helpers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/fractalforge/dagsched/scheduler"
	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

func TestLogBufferSwapperAndAggregatorRoundTrip(t *testing.T) {
	var dest bytes.Buffer
	cfg := scheduler.DefaultConfig(&dest)
	cfg.ThreadCount = 1
	sched := scheduler.New(cfg)

	logged := workunit.NewFunc("logged-unit", 4, func(ts *tss.Storage) {
		ts.Logger.WriteUserEntry("Custom", map[string]string{"K": "V"})
	})
	sched.AddWorkUnit(logged)

	swapper := workunit.New("swapper", 4, NewLogBufferSwapper(sched))
	swapper.AddDependency(logged)
	aggregator := workunit.New("aggregator", 4, NewLogAggregator(sched, false))
	aggregator.AddDependency(swapper)

	sched.AddWorkUnitAffinity(swapper)
	sched.AddWorkUnitAffinity(aggregator)
	sched.SortWorkUnitsAll(true)

	sched.DoOneFrame()

	got := dest.String()
	if !strings.Contains(got, "<Frame Number=") {
		t.Fatalf("aggregated log = %q, want a Frame element", got)
	}
	if !strings.Contains(got, "<Custom K=\"V\"/>") {
		t.Fatalf("aggregated log = %q, want the custom entry written by logged-unit", got)
	}
}

func TestWorkSorterPublishesAndInstalls(t *testing.T) {
	sched := scheduler.New(scheduler.DefaultConfig(io.Discard))

	a := workunit.NewFunc("a", 4, func(ts *tss.Storage) {})
	b := workunit.NewFunc("b", 4, func(ts *tss.Storage) {})
	b.AddDependency(a)
	sched.AddWorkUnit(a)
	sched.AddWorkUnit(b)
	sched.SortWorkUnitsAll(true)

	sorter := workunit.NewFunc("sorter", 4, NewWorkSorter(sched).Run)
	sched.AddWorkUnit(sorter)
	sched.SortWorkUnitsAll(true)

	sched.DoOneFrame()

	if sched.GetFrameCount() != 1 {
		t.Fatalf("GetFrameCount() = %d, want 1", sched.GetFrameCount())
	}

	// The sorter's published lists are installed at the frame boundary:
	// the main list must still hold all three units, in Key order.
	main, _ := sched.SnapshotForSort()
	if len(main) != 3 {
		t.Fatalf("main list after install has %d keys, want 3", len(main))
	}
	if !sort.SliceIsSorted(main, func(i, j int) bool { return main[i].Less(main[j]) }) {
		t.Fatalf("main list after install is not in Key order")
	}
}

func TestAsyncFileLoaderDecodesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(path, []byte(`{"n": 7}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var dest struct{ N int `json:"n"` }
	loader := NewAsyncFileLoader(path, &dest)
	loader.Run(nil)

	if err := loader.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	if dest.N != 7 {
		t.Fatalf("decoded N = %d, want 7", dest.N)
	}
	if loader.IsWorkDone() != workunit.Complete {
		t.Fatalf("IsWorkDone() = %v, want Complete", loader.IsWorkDone())
	}
}

func TestAsyncFileLoaderIsWorkDoneBeforeRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(path, []byte(`{"n": 1}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var dest struct{ N int `json:"n"` }
	loader := NewAsyncFileLoader(path, &dest)

	for loader.IsWorkDone() != workunit.Complete {
	}
	// The background decode reported itself Complete without Run ever
	// having been called yet, which is the whole point of polling it.
	if loader.Err() != nil {
		t.Fatalf("Err() = %v, want nil", loader.Err())
	}
	loader.Run(nil) // must not block now that done is already closed.
}

func TestAsyncFileLoaderSurfacesReadError(t *testing.T) {
	loader := NewAsyncFileLoader("/nonexistent/path/does-not-exist.json", &struct{}{})
	loader.Run(nil)
	if loader.Err() == nil {
		t.Fatalf("Err() = nil, want a file-not-found error")
	}
}
