// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"errors"
	stdmath "math"
)

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var ErrOverflow = errors.New("overflow")

// MaxUint returns the maximum value of an unsigned integer of type T.
func MaxUint[T Unsigned]() T {
	return ^T(0)
}

// Add returns:
// 1) a + b
// 2) If there is overflow, an error
func Add[T Unsigned](a, b T) (T, error) {
	if a > MaxUint[T]()-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// AddSaturating returns a + b, clamped to the range of int64 instead of
// wrapping around.
func AddSaturating[T ~int64](a, b T) T {
	switch {
	case b > 0 && a > T(stdmath.MaxInt64)-b:
		return T(stdmath.MaxInt64)
	case b < 0 && a < T(stdmath.MinInt64)-b:
		return T(stdmath.MinInt64)
	default:
		return a + b
	}
}

// Uint32 converts [n] to a uint32, saturating at the bounds of uint32.
func Uint32(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case uint64(n) > stdmath.MaxUint32:
		return stdmath.MaxUint32
	default:
		return uint32(n)
	}
}

// NonNegative returns [f] if it is a finite, non-negative number and 0
// otherwise. +Inf is preserved so that overflowing sums stay observable.
func NonNegative(f float64) float64 {
	if stdmath.IsNaN(f) || f < 0 {
		return 0
	}
	return f
}

// Sqrt is a NaN-free square root: negative and NaN inputs map to 0.
func Sqrt(f float64) float64 {
	return stdmath.Sqrt(NonNegative(f))
}

// Fraction returns part/total, or 0 when total is not positive.
func Fraction(part, total float64) float64 {
	if !(total > 0) {
		return 0
	}
	return NonNegative(part) / total
}
