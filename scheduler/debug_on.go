//go:build dagsched_debug

package scheduler

// debugBuild gates the programmer-error assertions spec.md §4.2/§7
// describes as debug-only: cyclic-dependency self-reentrancy detection
// in the recursive dependent count, and double-registration checks.
// Release builds (the default) compile these checks out entirely.
const debugBuild = true
