package ops

import (
	"strconv"
	"strings"

	"github.com/numberparty/numberparty/internal/model"
)

// Sum reveal thresholds. Sums at or inside the bounds are revealed exactly;
// sums outside only reveal which side they fall on.
const (
	SumLowThreshold  = 20
	SumHighThreshold = 180
)

// Result is the outcome of resolving one operation on two secret numbers.
// Exactly one of Value/Text is meaningful: Numeric reports which.
type Result struct {
	Value   int
	Text    string
	Numeric bool
}

// Display renders the result the way it is recorded in a Move
func (r Result) Display() string {
	if r.Numeric {
		return strconv.Itoa(r.Value)
	}
	return r.Text
}

func numeric(v int) Result {
	return Result{Value: v, Numeric: true}
}

func textual(t string) Result {
	return Result{Text: t}
}

// Resolve computes the outcome of the given operation on secret numbers a
// and b. It is pure and deterministic; the only error case is a ratio with
// a zero operand.
func Resolve(op model.Operation, a, b int) (Result, error) {
	switch op {
	case model.OpSum:
		return resolveSum(a, b), nil
	case model.OpProductTail:
		return resolveProductTail(a, b), nil
	case model.OpRatio:
		return resolveRatio(a, b)
	case model.OpZeroCensus:
		return numeric(zeroCensus(a, b)), nil
	default:
		return Result{}, model.ErrInvalidOperation
	}
}

// resolveSum reveals the exact sum when it lies within [low, high], and
// otherwise only which threshold it crossed
func resolveSum(a, b int) Result {
	sum := a + b
	if sum > SumHighThreshold {
		return textual("sum is above " + strconv.Itoa(SumHighThreshold))
	}
	if sum < SumLowThreshold {
		return textual("sum is below " + strconv.Itoa(SumLowThreshold))
	}
	return numeric(sum)
}

// resolveProductTail reveals only the last decimal digit of the product
func resolveProductTail(a, b int) Result {
	return numeric((a * b) % 10)
}

// resolveRatio reveals floor(max/min); undefined when the smaller value is zero
func resolveRatio(a, b int) (Result, error) {
	big, small := a, b
	if small > big {
		big, small = small, big
	}
	if small == 0 {
		return Result{}, model.ErrDivisionByZero
	}
	return numeric(big / small), nil
}

// zeroCensus counts integers strictly between a and b whose decimal
// representation contains the digit 0. Example: (44, 88) -> 4, covering
// 50, 60, 70 and 80.
func zeroCensus(a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	count := 0
	for n := lo + 1; n < hi; n++ {
		if strings.ContainsRune(strconv.Itoa(n), '0') {
			count++
		}
	}
	return count
}
