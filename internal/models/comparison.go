// Package models provides the indexed position data structures the matcher
// operates on: symbols, positions, and the persistent collection that
// indexes them by right, strike, and expiration.
package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Comparison is a reified binary comparison operator. Leg predicates carry
// one of these instead of a closure so the matcher can decide, at
// construction time, whether a predicate can be pushed into an index slice.
type Comparison int

const (
	// CmpEQ is "=".
	CmpEQ Comparison = iota
	// CmpNE is "<>".
	CmpNE
	// CmpLT is "<".
	CmpLT
	// CmpLE is "<=".
	CmpLE
	// CmpGT is ">".
	CmpGT
	// CmpGE is ">=".
	CmpGE
)

// String renders the comparison in its usual mathematical form.
func (c Comparison) String() string {
	switch c {
	case CmpEQ:
		return "="
	case CmpNE:
		return "<>"
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpGT:
		return ">"
	case CmpGE:
		return ">="
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// FlipOperands returns the comparison equivalent to swapping the operands,
// e.g. a < b becomes b > a. CmpEQ and CmpNE are self-dual.
func (c Comparison) FlipOperands() Comparison {
	switch c {
	case CmpLT:
		return CmpGT
	case CmpLE:
		return CmpGE
	case CmpGT:
		return CmpLT
	case CmpGE:
		return CmpLE
	default:
		return c
	}
}

// EvaluateDecimal applies the comparison to two decimals: cmp(a, b).
func (c Comparison) EvaluateDecimal(a, b decimal.Decimal) bool {
	return c.evaluateSign(a.Cmp(b))
}

// EvaluateTime applies the comparison to two timestamps: cmp(a, b).
func (c Comparison) EvaluateTime(a, b time.Time) bool {
	switch {
	case a.Before(b):
		return c.evaluateSign(-1)
	case a.After(b):
		return c.evaluateSign(1)
	default:
		return c.evaluateSign(0)
	}
}

// EvaluateRight applies the comparison to two Rights. Only CmpEQ/CmpNE are
// meaningful; any ordering comparison against a Right is defined false,
// since Right has no natural order (it resolves via UnresolvableAttribute
// semantics upstream, not here).
func (c Comparison) EvaluateRight(a, b Right) bool {
	switch c {
	case CmpEQ:
		return a == b
	case CmpNE:
		return a != b
	default:
		return false
	}
}

// BucketRanges resolves a comparison against a sorted sequence of n buckets
// into the index ranges [lo, hi) that satisfy it, given compareAt(i), which
// must return the sign of (bucket[i].Key - ref) and be monotonic
// non-decreasing over i (the buckets are sorted ascending by Key).
//
// All comparisons except CmpNE resolve to a single contiguous range; CmpNE
// resolves to the two disjoint open sides and returns up to two ranges.
// It is the sorted-slice form of these range rules; OptionPositionCollection
// keeps its indexes in trees and slices them with idxCollectRange, which
// applies the same rules to a tree.
func (c Comparison) BucketRanges(n int, compareAt func(int) int) [][2]int {
	firstGE := sort.Search(n, func(i int) bool { return compareAt(i) >= 0 })
	firstGT := sort.Search(n, func(i int) bool { return compareAt(i) > 0 })

	switch c {
	case CmpLT:
		return [][2]int{{0, firstGE}}
	case CmpLE:
		return [][2]int{{0, firstGT}}
	case CmpGT:
		return [][2]int{{firstGT, n}}
	case CmpGE:
		return [][2]int{{firstGE, n}}
	case CmpEQ:
		return [][2]int{{firstGE, firstGT}}
	case CmpNE:
		ranges := make([][2]int, 0, 2)
		if firstGE > 0 {
			ranges = append(ranges, [2]int{0, firstGE})
		}
		if firstGT < n {
			ranges = append(ranges, [2]int{firstGT, n})
		}
		return ranges
	default:
		return nil
	}
}

func (c Comparison) evaluateSign(sign int) bool {
	switch c {
	case CmpEQ:
		return sign == 0
	case CmpNE:
		return sign != 0
	case CmpLT:
		return sign < 0
	case CmpLE:
		return sign <= 0
	case CmpGT:
		return sign > 0
	case CmpGE:
		return sign >= 0
	default:
		return false
	}
}
