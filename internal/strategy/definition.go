package strategy

import (
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
)

// StrategyDefinition is a named, ordered sequence of leg definitions, plus
// the lots of underlying stock the strategy requires alongside them
// (spec.md §4.5). Build one with Builder rather than this struct literal
// directly, so forward-leg-reference validation runs.
type StrategyDefinition struct {
	Name           string
	UnderlyingLots int
	Legs           []LegDefinition
	// Guard is an optional whole-match check run once every leg is bound,
	// for constraints that can't be expressed as a single leg's
	// {target, comparison, reference} predicate — e.g. a butterfly's equal
	// strike spacing, a relation between two already-matched legs rather
	// than between a candidate and one reference. A nil Guard always
	// passes.
	Guard func(legs []models.OptionPosition) bool
}

func (d StrategyDefinition) guardPasses(legs []models.OptionPosition) bool {
	return d.Guard == nil || d.Guard(legs)
}

// Budget bounds a single StrategyDefinition.Match call: how many matches to
// collect, how long to keep searching, and how many candidates to try per
// leg before giving up on that branch. Zero values mean unbounded. The
// Matcher loop (spec.md §4.6) is what actually sets these; StrategyDefinition
// itself just honors whatever it's given.
type Budget struct {
	MaxTotalMatches int
	// MaxPerLeg caps the candidates tried at leg i to MaxPerLeg[i] — a
	// per-leg-index array (spec.md §4.6, §6: maxMatchesPerLeg[i]), not a
	// single scalar applied uniformly. An index past the end of the slice,
	// or a zero entry, means that leg is unbounded.
	MaxPerLeg []int
	Deadline  time.Time
}

// maxPerLegFor returns the cap for leg i, or 0 (unbounded) if none is set.
func (b Budget) maxPerLegFor(i int) int {
	if i >= len(b.MaxPerLeg) {
		return 0
	}
	return b.MaxPerLeg[i]
}

func (b Budget) exceeded() bool {
	return !b.Deadline.IsZero() && !timeNow().Before(b.Deadline)
}

// timeNow is a var so tests can't need it overridden via the forbidden
// toolchain; kept as a function for clarity at call sites.
var timeNow = time.Now

// Match searches positions depth-first, leg by leg, for every instance of
// the strategy, honoring budget. It returns the matches found and whether
// the search stopped early because the budget was exhausted rather than
// because the tree was fully explored (spec.md §9: the search may need to
// stop before exhausting the full recursion).
func (d StrategyDefinition) Match(positions models.OptionPositionCollection, enumerator Enumerator, budget Budget) ([]models.StrategyDefinitionMatch, bool) {
	if enumerator == nil {
		enumerator = DefaultEnumerator{}
	}
	s := &search{
		def:        d,
		enumerator: enumerator,
		budget:     budget,
	}
	s.recurse(positions, make([]models.OptionPosition, 0, len(d.Legs)), nil)
	return s.results, s.hitBudget
}

// TryMatch attempts to build exactly one StrategyDefinitionMatch by pairing
// each leg, in order, with a single caller-supplied candidate — no search,
// no collection. Used when the caller already knows which positions it
// wants checked against a definition (spec.md §4.5).
func (d StrategyDefinition) TryMatch(candidates []models.OptionPosition) (models.StrategyDefinitionMatch, bool) {
	if len(candidates) != len(d.Legs) {
		return models.StrategyDefinitionMatch{}, false
	}
	legsSoFar := make([]models.OptionPosition, 0, len(d.Legs))
	legs := make([]models.StrategyLegMatch, 0, len(d.Legs))
	for i, leg := range d.Legs {
		m, ok := leg.TryMatch(legsSoFar, candidates[i])
		if !ok {
			return models.StrategyDefinitionMatch{}, false
		}
		legs = append(legs, m)
		legsSoFar = append(legsSoFar, candidates[i])
	}
	if !d.guardPasses(legsSoFar) {
		return models.StrategyDefinitionMatch{}, false
	}
	return models.StrategyDefinitionMatch{
		DefinitionName: d.Name,
		UnderlyingLots: d.UnderlyingLots,
		Legs:           legs,
	}, true
}

// search holds the mutable state of one Match call's recursion.
type search struct {
	def        StrategyDefinition
	enumerator Enumerator
	budget     Budget
	results    []models.StrategyDefinitionMatch
	hitBudget  bool
}

// recurse tries to extend the in-progress match (legsSoFar / legMatches) by
// binding the next unbound leg to every viable candidate in positions, in
// enumerator order, recursing until every leg is bound.
func (s *search) recurse(positions models.OptionPositionCollection, legsSoFar []models.OptionPosition, legMatches []models.StrategyLegMatch) {
	if s.budget.exceeded() {
		s.hitBudget = true
		return
	}
	if s.budget.MaxTotalMatches > 0 && len(s.results) >= s.budget.MaxTotalMatches {
		s.hitBudget = true
		return
	}

	i := len(legsSoFar)
	if i == len(s.def.Legs) {
		if !s.def.guardPasses(legsSoFar) {
			return
		}
		s.results = append(s.results, models.StrategyDefinitionMatch{
			DefinitionName: s.def.Name,
			UnderlyingLots: s.def.UnderlyingLots,
			Legs:           append([]models.StrategyLegMatch(nil), legMatches...),
		})
		return
	}

	leg := s.def.Legs[i]
	candidates := leg.Match(legsSoFar, positions, s.enumerator)
	limit := len(candidates)
	if cap := s.budget.maxPerLegFor(i); cap > 0 && cap < limit {
		limit = cap
		s.hitBudget = true
	}

	for _, cand := range candidates[:limit] {
		if s.budget.MaxTotalMatches > 0 && len(s.results) >= s.budget.MaxTotalMatches {
			s.hitBudget = true
			return
		}
		remaining, err := positions.Remove(cand.Position)
		if err != nil {
			continue
		}
		s.recurse(remaining, append(legsSoFar, cand.Position), append(legMatches, cand))
	}
}
