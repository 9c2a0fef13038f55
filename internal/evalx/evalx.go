// Package evalx holds small generic numeric helpers shared across the
// evaluator, grounded on the retrieval pack's use of golang.org/x/exp's
// constraints package for the same purpose (the teacher's own
// vm/devices.go reaches for stdlib generics via nonBlockingChan[T any] but
// has no numeric-constraint need; the wider pack's SQL engine does).
package evalx

import "golang.org/x/exp/constraints"

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}
