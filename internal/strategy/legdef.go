package strategy

import "github.com/eddiefleurent/stratmatch/internal/models"

// LegDefinition describes one leg of a StrategyDefinition: a right, a signed
// unit quantity, and zero or more predicates narrowing which candidates may
// fill it (spec.md §4.4).
type LegDefinition struct {
	Right      models.Right
	Quantity   int
	Predicates []Predicate
}

// Filter narrows positions to the candidates that could possibly satisfy d,
// given the positions already bound to earlier legs. Every predicate in d
// (plus the base Right constraint) is pushed into the collection's indexes;
// IsIndexed is always true for this package's predicates so no scan fallback
// is needed here — Match still re-checks via Matches for safety.
func (d LegDefinition) Filter(legsSoFar []models.OptionPosition, positions models.OptionPositionCollection) models.OptionPositionCollection {
	cur := positions.SliceByRight(d.Right, false)
	for _, p := range d.Predicates {
		if narrowed, ok := p.Filter(legsSoFar, cur); ok {
			cur = narrowed
		}
	}
	return cur
}

// Match returns every candidate in positions that fills d, in the order
// enumerator prescribes, each paired with the per-leg multiplier it would
// contribute (spec.md §4.4: same right, same sign, and multiplier =
// quantity / d.Quantity via integer division — a candidate need not be an
// exact multiple of d.Quantity, it just must clear at least one, leaving
// the rest of its quantity unconsumed (spec.md §8 scenario S5)).
func (d LegDefinition) Match(legsSoFar []models.OptionPosition, positions models.OptionPositionCollection, enumerator Enumerator) []models.StrategyLegMatch {
	filtered := d.Filter(legsSoFar, positions)
	candidates := enumerator.Order(filtered)

	out := make([]models.StrategyLegMatch, 0, len(candidates))
	for _, p := range candidates {
		if !d.matchesCandidate(legsSoFar, p) {
			continue
		}
		multiplier := p.Quantity / d.Quantity
		if multiplier < 1 {
			continue
		}
		out = append(out, models.StrategyLegMatch{
			Position:   p.WithQuantity(multiplier * d.Quantity),
			Multiplier: multiplier,
		})
	}
	return out
}

// TryMatch reports whether a single known candidate (not drawn from a
// collection scan) fills d, and if so the resulting leg match. Used by
// StrategyDefinition.TryMatch's direct single-position variant (spec.md
// §4.5).
func (d LegDefinition) TryMatch(legsSoFar []models.OptionPosition, candidate models.OptionPosition) (models.StrategyLegMatch, bool) {
	if !d.matchesCandidate(legsSoFar, candidate) {
		return models.StrategyLegMatch{}, false
	}
	multiplier := candidate.Quantity / d.Quantity
	if multiplier < 1 {
		return models.StrategyLegMatch{}, false
	}
	return models.StrategyLegMatch{
		Position:   candidate.WithQuantity(multiplier * d.Quantity),
		Multiplier: multiplier,
	}, true
}

// matchesCandidate checks the base constraints common to Match and
// TryMatch: right, sign, and every predicate.
func (d LegDefinition) matchesCandidate(legsSoFar []models.OptionPosition, candidate models.OptionPosition) bool {
	if candidate.Symbol.SecurityType != models.SecurityOption {
		return false
	}
	if candidate.Symbol.Right != d.Right {
		return false
	}
	if models.Sign(candidate.Quantity) != models.Sign(d.Quantity) {
		return false
	}
	for _, p := range d.Predicates {
		if !p.Matches(legsSoFar, candidate) {
			return false
		}
	}
	return true
}
