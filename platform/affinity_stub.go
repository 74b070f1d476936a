// affinity_stub.go - CPU affinity no-op for platforms without sched_setaffinity.

//go:build !linux

package platform

// PinToCPU is a no-op outside Linux. The barrier-mode worker pool treats
// pinning as an optimization hint only, so behavior is identical with or
// without it.
func PinToCPU(core int) {
	_ = core
}
