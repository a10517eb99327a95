// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/luxfi/governance/utils/math"
)

const epsilon = 1e-9

// Cap limits every weight to [fraction] of the sum of the capped weights.
//
// The cap is self-referential: lowering a weight lowers the total and so the
// cap itself. Cap solves it in closed form rather than by iteration. With the
// positive weights sorted as w[0] >= w[1] >= ..., capping the k largest at
// level L is consistent exactly when
//
//	L = fraction * sum(w[k:]) / (1 - k*fraction),  w[k] <= L <= w[k-1]
//
// and the smallest such k is found in one pass over the sorted weights. The
// capped weights then sum to L/fraction, so no capped weight exceeds
// [fraction] of the capped total.
//
// A positive solution only exists when there are at least 1/fraction
// contributors with positive weight. For smaller populations no assignment
// of positive weights can meet the cap; Cap then levels every weight down to
// the smallest positive weight, which is the lowest maximum share reachable
// by only lowering weights, and reports ok=false.
//
// Negative and NaN weights are treated as zero.
func Cap(weights []float64, fraction float64) (capped []float64, level float64, ok bool) {
	capped = make([]float64, len(weights))
	sorted := make([]float64, 0, len(weights))
	for i, w := range weights {
		w = math.NonNegative(w)
		capped[i] = w
		if w > 0 {
			sorted = append(sorted, w)
		}
	}
	if len(sorted) == 0 || fraction >= 1 {
		return capped, floats.Max(append(sorted, 0)), true
	}
	slices.Sort(sorted)
	slices.Reverse(sorted)

	level, ok = capLevel(sorted, fraction)
	for i, w := range capped {
		capped[i] = min(w, level)
	}
	return capped, level, ok
}

// capLevel expects [sorted] to be positive and in descending order.
func capLevel(sorted []float64, fraction float64) (float64, bool) {
	// Suffix sums are accumulated from the smallest weight up so that large
	// weights never cancel against each other.
	suffix := make([]float64, len(sorted)+1)
	for k := len(sorted) - 1; k >= 0; k-- {
		suffix[k] = suffix[k+1] + sorted[k]
	}
	for k, w := range sorted {
		denom := 1 - float64(k)*fraction
		if denom <= 0 {
			break
		}
		level := fraction * suffix[k] / denom
		if w <= level {
			return level, true
		}
	}
	// Leveling everything gives each contributor 1/len(sorted) of the total,
	// which meets the cap only if there are at least 1/fraction of them.
	return sorted[len(sorted)-1], float64(len(sorted))*fraction >= 1-epsilon
}
