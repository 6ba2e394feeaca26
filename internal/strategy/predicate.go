package strategy

import (
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/shopspring/decimal"
)

// Target names the candidate attribute a Predicate constrains.
type Target int

const (
	// TargetRight constrains a candidate's Symbol.Right.
	TargetRight Target = iota
	// TargetStrike constrains a candidate's Symbol.Strike.
	TargetStrike
	// TargetExpiration constrains a candidate's Symbol.Expiration.
	TargetExpiration
)

func (t Target) String() string {
	switch t {
	case TargetRight:
		return "right"
	case TargetStrike:
		return "strike"
	case TargetExpiration:
		return "expiration"
	default:
		return "unknown"
	}
}

// referenceKind distinguishes a fixed comparand from one resolved off an
// earlier leg at match time.
type referenceKind int

const (
	refLiteral referenceKind = iota
	refLegAttribute
)

// Reference is the right-hand side of a normalized predicate: either a fixed
// value, or an attribute of a leg matched earlier in the same strategy
// (spec.md §4.3).
type Reference struct {
	kind       referenceKind
	legIndex   int
	legTarget  Target
	right      models.Right
	strike     decimal.Decimal
	expiration time.Time
}

// LiteralRight builds a fixed Right comparand.
func LiteralRight(r models.Right) Reference {
	return Reference{kind: refLiteral, right: r}
}

// LiteralStrike builds a fixed strike comparand.
func LiteralStrike(s decimal.Decimal) Reference {
	return Reference{kind: refLiteral, strike: s}
}

// LiteralExpiration builds a fixed expiration comparand.
func LiteralExpiration(t time.Time) Reference {
	return Reference{kind: refLiteral, expiration: t}
}

// LegRight references the Right of the leg at legIndex, resolved once that
// leg has been matched.
func LegRight(legIndex int) Reference {
	return Reference{kind: refLegAttribute, legIndex: legIndex, legTarget: TargetRight}
}

// LegStrike references the Strike of the leg at legIndex.
func LegStrike(legIndex int) Reference {
	return Reference{kind: refLegAttribute, legIndex: legIndex, legTarget: TargetStrike}
}

// LegExpiration references the Expiration of the leg at legIndex.
func LegExpiration(legIndex int) Reference {
	return Reference{kind: refLegAttribute, legIndex: legIndex, legTarget: TargetExpiration}
}

// isLegAttribute reports whether the reference reads an earlier leg, and if
// so which index.
func (r Reference) isLegAttribute() (int, bool) {
	if r.kind == refLegAttribute {
		return r.legIndex, true
	}
	return 0, false
}

// resolve turns r into a concrete comparand given the legs matched so far
// (legsSoFar[i] is the position bound to leg i). Literals resolve
// unconditionally; leg attributes require legIndex < len(legsSoFar), which
// Builder.Leg already guarantees at construction time, so a failure here
// indicates a construction bug rather than a runtime condition.
func (r Reference) resolve(legsSoFar []models.OptionPosition) (Reference, bool) {
	if r.kind == refLiteral {
		return r, true
	}
	if r.legIndex >= len(legsSoFar) {
		return Reference{}, false
	}
	sym := legsSoFar[r.legIndex].Symbol
	switch r.legTarget {
	case TargetRight:
		return LiteralRight(sym.Right), true
	case TargetStrike:
		return LiteralStrike(sym.Strike), true
	case TargetExpiration:
		return LiteralExpiration(sym.Expiration), true
	default:
		return Reference{}, false
	}
}

// Operand is one side of a predicate expression as authored: either "the
// candidate position's attribute" or a Reference. Exactly one side of a
// two-operand expression must be Candidate() (spec.md §4.3's construction
// rule); NewPredicate rejects any pair that isn't.
type Operand struct {
	isCandidate bool
	ref         Reference
}

// Candidate is the operand meaning "this leg's candidate position".
func Candidate() Operand { return Operand{isCandidate: true} }

// Ref wraps a Reference as an operand.
func Ref(r Reference) Operand { return Operand{ref: r} }

// Predicate is a single normalized leg constraint: candidateAttribute <cmp>
// reference. WhereRight/WhereStrike/WhereExpiration build one directly;
// NewPredicate builds one from a two-operand expression with the candidate
// on either side. Builder.Leg takes the finished predicates as a leg's
// constraints.
type Predicate struct {
	Target     Target
	Comparison models.Comparison
	Reference  Reference
}

// NewPredicate normalizes a two-operand expression into a Predicate. Exactly
// one of left/right must be Candidate(); the other supplies the reference.
// If the candidate appears on the right, the comparison is flipped so the
// stored Predicate always reads "candidate <cmp> reference" (spec.md §4.3).
func NewPredicate(target Target, left Operand, cmp models.Comparison, right Operand) (Predicate, error) {
	if left.isCandidate == right.isCandidate {
		return Predicate{}, ErrInvalidPredicateForm
	}
	if left.isCandidate {
		return Predicate{Target: target, Comparison: cmp, Reference: right.ref}, nil
	}
	return Predicate{Target: target, Comparison: cmp.FlipOperands(), Reference: left.ref}, nil
}

// WhereRight builds the common single-sided form directly: candidate.Right
// <cmp> ref.
func WhereRight(cmp models.Comparison, ref Reference) Predicate {
	return Predicate{Target: TargetRight, Comparison: cmp, Reference: ref}
}

// WhereStrike builds candidate.Strike <cmp> ref.
func WhereStrike(cmp models.Comparison, ref Reference) Predicate {
	return Predicate{Target: TargetStrike, Comparison: cmp, Reference: ref}
}

// WhereExpiration builds candidate.Expiration <cmp> ref.
func WhereExpiration(cmp models.Comparison, ref Reference) Predicate {
	return Predicate{Target: TargetExpiration, Comparison: cmp, Reference: ref}
}

// forwardLegIndex reports the leg index p's reference reads, if any —
// used by Builder.Leg to reject forward/self references at construction.
func (p Predicate) forwardLegIndex() (int, bool) {
	return p.Reference.isLegAttribute()
}

// IsIndexed is always true: every Predicate constructed via this package is
// already decomposed into the "candidate attribute <cmp> reference" form
// that OptionPositionCollection's slice operations need (spec.md §4.3's
// isIndexed is a property of raw predicate expressions in general; this
// package never constructs the un-decomposable kind it describes).
func (p Predicate) IsIndexed() bool { return true }

// Matches reports whether candidate satisfies p, given the positions bound
// to earlier legs. Used as the scan fallback and as a safety check after
// index pushdown.
func (p Predicate) Matches(legsSoFar []models.OptionPosition, candidate models.OptionPosition) bool {
	ref, ok := p.Reference.resolve(legsSoFar)
	if !ok {
		return false
	}
	if candidate.Symbol.SecurityType != models.SecurityOption {
		// Right/strike/expiration are unresolvable attributes on the
		// underlying equity position; no comparison against them holds.
		return false
	}
	switch p.Target {
	case TargetRight:
		return p.Comparison.EvaluateRight(candidate.Symbol.Right, ref.right)
	case TargetStrike:
		return p.Comparison.EvaluateDecimal(candidate.Symbol.Strike, ref.strike)
	case TargetExpiration:
		return p.Comparison.EvaluateTime(candidate.Symbol.Expiration, ref.expiration)
	default:
		return false
	}
}

// Filter pushes p into one of the collection's indexes when the reference is
// resolvable against legsSoFar, returning the narrowed collection. The
// second return is false only when the reference can't yet be resolved, in
// which case positions is returned unchanged and the caller must fall back
// to a Matches scan.
func (p Predicate) Filter(legsSoFar []models.OptionPosition, positions models.OptionPositionCollection) (models.OptionPositionCollection, bool) {
	ref, ok := p.Reference.resolve(legsSoFar)
	if !ok {
		return positions, false
	}
	switch p.Target {
	case TargetRight:
		return positions.SliceByRight(ref.right, false), true
	case TargetStrike:
		return positions.SliceByStrike(p.Comparison, ref.strike, false), true
	case TargetExpiration:
		return positions.SliceByExpiration(p.Comparison, ref.expiration, false), true
	default:
		return positions, false
	}
}
