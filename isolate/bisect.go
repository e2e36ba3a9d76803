// Package isolate narrows an observed runtime error down to the mod, atomic
// mod group, or mod pair that reproduces it, using as few host application
// runs as possible.
package isolate

import "context"

// Probe re-applies the full enable/disable state so that candidates[from:]
// are disabled and candidates[:from] enabled, runs the host application once,
// and reports whether the target error reproduced. from == n runs with every
// candidate enabled.
type Probe func(ctx context.Context, from int) (bool, error)

// Bisect locates the single candidate, out of n, whose presence makes the
// error reproduce.
//
// The search maintains the invariant that the guilty index lies in [lo, hi)
// over the virtual interval [0, n+1), where the extra top value stands for
// "no candidate is guilty". A probe at mid reproduces the error exactly when
// the guilty candidate is inside the enabled prefix, which narrows one bound
// per call; the loop therefore finishes in ⌈log2(n+1)⌉ probes.
//
// found is false when no probe ever reproduced the error; the returned index
// is meaningless then and must not be used.
func Bisect(ctx context.Context, n int, probe Probe) (index int, found bool, err error) {
	lo, hi := 0, n+1

	for hi-lo > 1 {
		mid := (lo + hi) / 2

		reproduced, err := probe(ctx, mid)
		if err != nil {
			return 0, false, err
		}

		if reproduced {
			// Guilty candidate is still enabled: in [lo, mid).
			hi = mid
		} else {
			// Disabling [mid, n) silenced the error: guilty is in [mid, hi).
			lo = mid
		}
	}

	if lo == n {
		// The upper bound never moved, meaning no run reproduced the error.
		return 0, false, nil
	}
	return lo, true, nil
}
