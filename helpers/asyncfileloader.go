// asyncfileloader.go - a reference AsyncWorkUnit: decodes a JSON-framed
// payload off a background goroutine and polls its completion (§4.11).
// Grounded on the teacher's sonnet.Unmarshal usage in syncharvester.go.

package helpers

import (
	"os"

	"github.com/sugawarayuuta/sonnet"

	"github.com/fractalforge/dagsched/atomics"
	"github.com/fractalforge/dagsched/tss"
	"github.com/fractalforge/dagsched/workunit"
)

// AsyncFileLoader reads a file and JSON-decodes it into Dest on a
// goroutine started the moment the loader is constructed, independent of
// when the owning WorkUnit is actually scheduled to run. IsWorkDone
// reflects the background goroutine's own progress, so a caller can poll
// it long before the scheduler ever invokes Run; Run itself just blocks
// until that background decode has finished.
type AsyncFileLoader struct {
	path string
	dest any
	done chan struct{}

	state atomics.Word32 // workunit.RunningState published by load()
	err   error
}

// NewAsyncFileLoader starts loading path in the background immediately,
// decoding into dest (a pointer) once the read completes.
func NewAsyncFileLoader(path string, dest any) *AsyncFileLoader {
	l := &AsyncFileLoader{
		path: path,
		dest: dest,
		done: make(chan struct{}),
	}
	l.state.Store(uint32(workunit.Running))
	go l.load()
	return l
}

func (l *AsyncFileLoader) load() {
	data, err := os.ReadFile(l.path)
	if err == nil {
		err = sonnet.Unmarshal(data, l.dest)
	}
	l.err = err
	l.state.Store(uint32(workunit.Complete))
	close(l.done)
}

// IsWorkDone reports the background decode's own progress — Running
// (stored by the constructor) until load() has stored its result,
// Complete thereafter —
// regardless of whether the owning WorkUnit has been invoked yet.
func (l *AsyncFileLoader) IsWorkDone() workunit.RunningState {
	return workunit.RunningState(l.state.Load())
}

// Err returns the background load's error, if any. Only meaningful after
// IsWorkDone reports Complete.
func (l *AsyncFileLoader) Err() error {
	return l.err
}

// Run blocks until the background decode finishes. By the time it
// returns, IsWorkDone has already reported Complete for as long as the
// decode itself took, possibly frames earlier.
func (l *AsyncFileLoader) Run(ts *tss.Storage) {
	<-l.done
}
