// key.go - the (dependent-count, average-runtime, identity) sort key.
//
// Ordering is lexicographic ascending: a unit with more dependents
// sorts later (it should run earlier when scanned from the tail), ties
// break on longer average runtime, final tie-break on identity gives a
// strict total order (§3, §8.4).

package workunit

// Key is the immutable triple the work lists are sorted by.
type Key struct {
	DependentCount int
	AverageMicros  int64
	Unit           *WorkUnit
}

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool {
	if k.DependentCount != other.DependentCount {
		return k.DependentCount < other.DependentCount
	}
	if k.AverageMicros != other.AverageMicros {
		return k.AverageMicros < other.AverageMicros
	}
	return k.Unit.ID() < other.Unit.ID()
}

// Equal reports whether k and other name the same unit — the only field
// that actually identifies a key uniquely.
func (k Key) Equal(other Key) bool {
	return k.Unit == other.Unit
}
