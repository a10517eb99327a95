// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package weight

import (
	"fmt"
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestCapNoWhales(t *testing.T) {
	require := require.New(t)

	weights := make([]float64, 40)
	for i := range weights {
		weights[i] = 1
	}
	capped, _, ok := Cap(weights, .05)
	require.True(ok)
	require.Equal(weights, capped)
}

func TestCapSingleWhale(t *testing.T) {
	require := require.New(t)

	weights := []float64{100}
	for range 20 {
		weights = append(weights, 1)
	}
	capped, level, ok := Cap(weights, .05)
	require.True(ok)
	require.InDelta(20.0/19, level, epsilon)
	require.InDelta(level, capped[0], epsilon)
	for _, w := range capped[1:] {
		require.Equal(1.0, w)
	}
	require.InDelta(.05, capped[0]/floats.Sum(capped), epsilon)
}

func TestCapSmallPopulation(t *testing.T) {
	tests := []struct {
		name     string
		weights  []float64
		expected []float64
	}{
		{
			name:     "single contributor",
			weights:  []float64{7},
			expected: []float64{7},
		},
		{
			name:     "leveled to smallest",
			weights:  []float64{9, 4, 1},
			expected: []float64{1, 1, 1},
		},
		{
			name:     "zero weights untouched",
			weights:  []float64{0, 3, 2},
			expected: []float64{0, 2, 2},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			capped, _, ok := Cap(test.weights, .05)
			require.False(ok)
			require.Equal(test.expected, capped)
		})
	}
}

func TestCapExactlyEnoughContributors(t *testing.T) {
	require := require.New(t)

	weights := []float64{50, 40, 30}
	for range 17 {
		weights = append(weights, 2)
	}
	capped, level, ok := Cap(weights, .05)
	require.True(ok)
	require.InDelta(2, level, epsilon)
	for _, w := range capped {
		require.InDelta(2, w, epsilon)
	}
}

func TestCapEdgeCases(t *testing.T) {
	require := require.New(t)

	capped, level, ok := Cap(nil, .05)
	require.True(ok)
	require.Empty(capped)
	require.Zero(level)

	capped, _, ok = Cap([]float64{0, -1, stdmath.NaN()}, .05)
	require.True(ok)
	require.Equal([]float64{0, 0, 0}, capped)

	capped, level, ok = Cap([]float64{3, 1}, 1)
	require.True(ok)
	require.Equal([]float64{3, 1}, capped)
	require.Equal(3.0, level)
}

// Whatever the distribution, no capped weight may exceed the cap fraction of
// the capped total once there are enough contributors.
func TestCapInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, fraction := range []float64{.05, .1, .2} {
		minContributors := int(stdmath.Ceil(1 / fraction))
		for trial := range 200 {
			t.Run(fmt.Sprintf("fraction=%v/trial=%d", fraction, trial), func(t *testing.T) {
				require := require.New(t)

				n := minContributors + rng.IntN(200)
				weights := make([]float64, n)
				for i := range weights {
					// Pareto-like tail so that whales are common.
					weights[i] = 1 / stdmath.Pow(1-rng.Float64(), 2)
				}

				capped, level, ok := Cap(weights, fraction)
				require.True(ok)

				total := floats.Sum(capped)
				for i, w := range capped {
					require.LessOrEqual(w, fraction*total*(1+epsilon))
					require.LessOrEqual(w, weights[i])
					require.LessOrEqual(w, level*(1+epsilon))
					if weights[i] <= level {
						require.Equal(weights[i], w)
					}
				}
			})
		}
	}
}

func TestCapMonotone(t *testing.T) {
	require := require.New(t)

	base := make([]float64, 30)
	for i := range base {
		base[i] = float64(i + 1)
	}
	before, _, _ := Cap(base, .05)

	raised := append([]float64(nil), base...)
	raised[0] += 10
	after, _, _ := Cap(raised, .05)
	require.GreaterOrEqual(after[0], before[0])
}

func ExampleCap() {
	weights := []float64{100}
	for range 20 {
		weights = append(weights, 1)
	}
	capped, _, _ := Cap(weights, .05)
	fmt.Printf("whale share: %.4f\n", capped[0]/floats.Sum(capped))
	// Output:
	// whale share: 0.0500
}
