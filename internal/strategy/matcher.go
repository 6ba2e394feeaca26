package strategy

import (
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/sirupsen/logrus"
)

// MatcherOptions caps a Matcher.Run call (spec.md §4.6). Zero values mean
// unbounded: run until no definition can match anything left in the
// collection.
type MatcherOptions struct {
	// MaxDuration bounds the wall-clock time of one Run call.
	MaxDuration time.Duration
	// MaxTotalMatches bounds how many strategies Run returns in total.
	MaxTotalMatches int
	// MaxMatchesPerLeg bounds how many candidates a single leg's search
	// considers before giving up on that branch, inside each definition's
	// recursive match — indexed by leg position (spec.md §6:
	// maxMatchesPerLeg[i]). A leg past the end of the slice is unbounded.
	MaxMatchesPerLeg []int
	// Enumerator decides candidate order within a leg; DefaultEnumerator is
	// used when nil.
	Enumerator Enumerator
}

// MatchResult is what one Matcher.Run call produces: every strategy found,
// in discovery order, and the collection left over once they're removed.
type MatchResult struct {
	Strategies []Strategy
	Remaining  models.OptionPositionCollection
	HitBudget  bool
}

// Objective scores a full set of matches. It is the pluggable seam for
// comparing alternative matchings; the package ships no implementation and
// Matcher does not call one.
type Objective func([]models.StrategyDefinitionMatch) float64

// Matcher repeatedly finds and removes the first available strategy
// instance — trying each definition in order, against whatever positions
// remain — until nothing more matches or a budget is exhausted (spec.md
// §4.6). Definitions earlier in the list are strictly preferred over later
// ones on every pass.
type Matcher struct {
	Definitions []StrategyDefinition
	Options     MatcherOptions
	Log         *logrus.Logger
}

// NewMatcher builds a Matcher over definitions with the given options. Log
// starts out as logrus's standard logger; callers may replace it.
func NewMatcher(definitions []StrategyDefinition, options MatcherOptions) *Matcher {
	log := options.log()
	return &Matcher{Definitions: definitions, Options: options, Log: log}
}

func (o MatcherOptions) log() *logrus.Logger { return logrus.StandardLogger() }

// Run drains positions of every strategy instance it can find, respecting
// Options, and returns them alongside whatever is left over.
func (m *Matcher) Run(positions models.OptionPositionCollection) (MatchResult, error) {
	enumerator := m.Options.Enumerator
	if enumerator == nil {
		enumerator = DefaultEnumerator{}
	}

	var deadline time.Time
	if m.Options.MaxDuration != 0 {
		deadline = timeNow().Add(m.Options.MaxDuration)
	}

	remaining := positions
	var found []Strategy
	hitBudget := false

	for {
		if m.Options.MaxTotalMatches > 0 && len(found) >= m.Options.MaxTotalMatches {
			hitBudget = true
			break
		}
		if !deadline.IsZero() && !timeNow().Before(deadline) {
			hitBudget = true
			break
		}

		match, budgetHit, ok := m.matchOnce(remaining, enumerator, deadline)
		hitBudget = hitBudget || budgetHit
		if !ok {
			break
		}

		next, err := remaining.Accept(match)
		if err != nil {
			return MatchResult{}, err
		}
		remaining = next
		found = append(found, Materialize(remaining.Underlying(), match))

		m.Log.WithFields(logrus.Fields{
			"strategy":   match.DefinitionName,
			"multiplier": match.Multiplier(),
		}).Debug("matched strategy instance")
	}

	return MatchResult{Strategies: found, Remaining: remaining, HitBudget: hitBudget}, nil
}

// matchOnce tries every definition in order against positions and returns
// the first match any of them yields. Its MaxTotalMatches of 1 only picks
// that first match, so a definition that produced one does not count as
// having exhausted the budget.
func (m *Matcher) matchOnce(positions models.OptionPositionCollection, enumerator Enumerator, deadline time.Time) (models.StrategyDefinitionMatch, bool, bool) {
	budget := Budget{MaxTotalMatches: 1, MaxPerLeg: m.Options.MaxMatchesPerLeg, Deadline: deadline}
	hitBudget := false
	for _, def := range m.Definitions {
		matches, exceeded := def.Match(positions, enumerator, budget)
		if len(matches) > 0 {
			return matches[0], hitBudget, true
		}
		hitBudget = hitBudget || exceeded
	}
	return models.StrategyDefinitionMatch{}, hitBudget, false
}
