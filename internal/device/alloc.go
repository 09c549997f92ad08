package device

import "errors"

// DefaultPairCount is the number of pairs probed by a session that does not
// configure an explicit range.
const DefaultPairCount = 16

// ErrNoFreeDevices reports that every candidate pair in the allocation range
// is claimed. This is an expected outcome of running many sessions at once,
// not a fault; callers degrade rather than abort.
var ErrNoFreeDevices = errors.New("no free device pairs in range")

// Pair is a claimed duplex channel: a read id and its companion write id.
type Pair struct {
	ReadID  int
	WriteID int
}

// Allocate probes read ids from start through end inclusive, stepping by
// step, and claims the first pair whose read end opens immediately. The read
// end of the returned pair is left open and owned by the caller. Step is
// normally 2 to preserve the even/odd pairing convention.
func Allocate(reg Registry, start, end, step int) (Pair, error) {
	if step <= 0 {
		step = 2
	}
	for id := start; id <= end; id += step {
		if err := reg.OpenForRead(id, 0); err != nil {
			continue
		}
		return Pair{ReadID: id, WriteID: id + 1}, nil
	}
	return Pair{}, ErrNoFreeDevices
}

// AllocateRange is Allocate over a range expressed as a starting read id and
// a pair count, the form sessions configure.
func AllocateRange(reg Registry, start, pairs int) (Pair, error) {
	if pairs <= 0 {
		pairs = DefaultPairCount
	}
	return Allocate(reg, start, start+2*(pairs-1), 2)
}
