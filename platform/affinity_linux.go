// affinity_linux.go - Linux CPU affinity via sched_setaffinity(2)
//
// Mirrors the pinning strategy the teacher's ring24/ring32 packages use
// for their pinned consumers, but goes through golang.org/x/sys/unix
// instead of a hand-rolled syscall.RawSyscall table, since this package
// pins a handful of pool workers per frame rather than a hot per-message
// loop and does not need the teacher's precomputed-mask shortcut.

//go:build linux

package platform

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCPU binds the calling OS thread to the given logical core. It must
// be called from the goroutine that should be pinned; it calls
// runtime.LockOSThread itself first. It is a best-effort hint: a failure to pin is
// not fatal, since correctness never depends on affinity (§5 of the
// scheduler spec — thread affinity is about the registrar's goroutine,
// not a CPU core).
func PinToCPU(core int) {
	if core < 0 {
		return
	}
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	_ = unix.SchedSetaffinity(0, &set)
}
