// Package fixedpoint implements the unsigned fixed-point arithmetic the
// matching engine uses for fees and rebates. All rates are scaled by
// Scale (10^9); a rate of 1_000_000 therefore means 0.1%.
package fixedpoint

import (
	"fmt"
	"math/bits"
)

// Scale is the fixed-point denominator used throughout the engine (S in
// the spec). A "rate" of Scale means 100%.
const Scale uint64 = 1_000_000_000

// Mul computes floor(a*b/Scale), checked. bits.Div64 itself panics when
// the 128-bit product divided by Scale would not fit back into 64 bits
// (hi >= Scale) — that is exactly the spec's "overflow in mul aborts"
// contract, so no extra guard is needed beyond widening the multiply.
func Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, Scale)
	return q
}

// UnsafeMul computes floor(a*b/Scale) through the same 128-bit path as
// Mul, so it too panics if the result does not fit in 64 bits. The
// separate name marks call sites whose operands are already bounded
// (e.g. order-book quantities and fee rates).
func UnsafeMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, Scale)
	return q
}

// UnsafeMulRound computes floor(a*b/Scale) and reports whether the true
// product a*b was not an exact multiple of Scale — i.e. whether the
// result was rounded down. Callers needing a "round up the protocol's
// share" behavior (taker commission) add one unit when isRoundDown is
// true.
func UnsafeMulRound(a, b uint64) (isRoundDown bool, result uint64) {
	hi, lo := bits.Mul64(a, b)
	q, r := bits.Div64(hi, lo, Scale)
	return r != 0, q
}

// UnsafeDiv computes floor(a/b). b == 0 panics — dividing by a
// caller-supplied zero divisor is always a bug, never a value to
// propagate.
func UnsafeDiv(a, b uint64) uint64 {
	if b == 0 {
		panic(fmt.Sprintf("fixedpoint: division by zero (a=%d)", a))
	}
	return a / b
}

// DivScale computes floor(a*Scale/b) — the inverse of Mul, used to solve
// for a base quantity from a scaled quote budget and a per-unit rate
// (e.g. price, or price inflated by a fee rate) without losing the
// Scale factor that Mul's division removed. b == 0 panics.
func DivScale(a, b uint64) uint64 {
	if b == 0 {
		panic(fmt.Sprintf("fixedpoint: division by zero (a=%d)", a))
	}
	hi, lo := bits.Mul64(a, Scale)
	q, _ := bits.Div64(hi, lo, b)
	return q
}

// CeilMul computes ceil(a*b/Scale) — the "round the protocol's share up"
// helper used for taker commission, so the pool never accrues a deficit
// from rounding.
func CeilMul(a, b uint64) uint64 {
	down, result := UnsafeMulRound(a, b)
	if down {
		result++
	}
	return result
}
