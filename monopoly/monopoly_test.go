package monopoly

import (
	"testing"

	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

func TestDesiredThreadCount(t *testing.T) {
	m := New("mono", 4, 6, func(ts *tss.Storage, threadCount int) {})
	if got := m.DesiredThreadCount(); got != 6 {
		t.Fatalf("DesiredThreadCount() = %d, want 6", got)
	}
}

func TestBodyReceivesDesiredThreadCount(t *testing.T) {
	var seen int
	m := New("mono", 4, 3, func(ts *tss.Storage, threadCount int) { seen = threadCount })

	m.TakeOwnership()
	m.Invoke(nil)

	if seen != 3 {
		t.Fatalf("body observed threadCount = %d, want 3", seen)
	}
	if m.State() != workunit.Complete {
		t.Fatalf("State() after Invoke = %v, want Complete", m.State())
	}
}
