package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
)

// bullCallSpreadDef builds Long Call @ strike K, Short Call @ strike > K,
// same expiration — the running example from scenario S1.
func bullCallSpreadDef(t *testing.T) StrategyDefinition {
	t.Helper()
	def, err := NewStrategy("bull_call_spread").
		Leg(models.Call, 1).
		Leg(models.Call, -1,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)),
		).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return def
}

func TestBuilder_RejectsForwardLegReference(t *testing.T) {
	_, err := NewStrategy("bad").
		Leg(models.Call, 1, WhereStrike(models.CmpGT, LegStrike(1))).
		Leg(models.Call, -1).
		Build()
	if !errors.Is(err, ErrForwardLegReference) {
		t.Fatalf("expected ErrForwardLegReference, got %v", err)
	}
}

func TestBuilder_RejectsSelfLegReference(t *testing.T) {
	_, err := NewStrategy("bad").
		Leg(models.Call, 1, WhereStrike(models.CmpGT, LegStrike(0))).
		Build()
	if !errors.Is(err, ErrForwardLegReference) {
		t.Fatalf("expected ErrForwardLegReference, got %v", err)
	}
}

// TestStrategyDefinition_MatchRescalesAcrossLegs is scenario S1: a long call
// holding of 5 and a short call holding of 3 both satisfy the spread
// definition, but at different per-leg multipliers. The overall strategy
// multiplier is the minimum across legs (3).
func TestStrategyDefinition_MatchRescalesAcrossLegs(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 95, 5),
		testLegPosition(models.Call, 100, -3),
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matches, hitBudget := def.Match(c, DefaultEnumerator{}, Budget{})
	if hitBudget {
		t.Fatal("unexpected budget exhaustion")
	}
	if len(matches) != 1 {
		t.Fatalf("Match() returned %d matches, want 1", len(matches))
	}
	if got := matches[0].Multiplier(); got != 3 {
		t.Fatalf("Multiplier() = %d, want 3 (min of leg multipliers 5 and 3)", got)
	}
}

func TestStrategyDefinition_MatchRejectsWrongStrikeOrder(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Call, 95, -1), // short strike below long strike
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
	if len(matches) != 0 {
		t.Fatalf("expected no matches when short strike is not above long strike, got %d", len(matches))
	}
}

func TestStrategyDefinition_TryMatch(t *testing.T) {
	def := bullCallSpreadDef(t)
	long := testLegPosition(models.Call, 95, 1)
	short := testLegPosition(models.Call, 100, -1)

	m, ok := def.TryMatch([]models.OptionPosition{long, short})
	if !ok {
		t.Fatal("expected TryMatch to succeed for a valid pairing")
	}
	if m.Multiplier() != 1 {
		t.Fatalf("Multiplier() = %d, want 1", m.Multiplier())
	}

	if _, ok := def.TryMatch([]models.OptionPosition{long}); ok {
		t.Fatal("expected TryMatch to fail when candidate count mismatches leg count")
	}
}

func TestStrategyDefinition_MatchHonorsMaxTotalMatches(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 95, -1),
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Call, 105, -1),
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matches, hitBudget := def.Match(c, DefaultEnumerator{}, Budget{MaxTotalMatches: 1})
	if len(matches) != 1 {
		t.Fatalf("Match() returned %d matches, want exactly 1 under MaxTotalMatches=1", len(matches))
	}
	if !hitBudget {
		t.Fatal("expected hitBudget=true when more matches were possible than the cap allowed")
	}
}

// TestStrategyDefinition_MatchHonorsMaxPerLegCap is spec.md §8 scenario S9:
// a straddle with five eligible anchors and maxMatchesPerLeg[0] = 2 yields
// at most 2 matches, because leg 0's search gives up on its branch after
// trying only the first 2 candidates — a cap distinct from MaxTotalMatches,
// which bounds results across the whole search rather than one leg.
func TestStrategyDefinition_MatchHonorsMaxPerLegCap(t *testing.T) {
	def, err := NewStrategy("straddle").
		Leg(models.Call, 1).
		Leg(models.Put, 1,
			WhereStrike(models.CmpEQ, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)),
		).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var holdings []models.OptionPosition
	for _, strike := range []float64{100, 101, 102, 103, 104} {
		holdings = append(holdings,
			testLegPosition(models.Call, strike, 1),
			testLegPosition(models.Put, strike, 1),
		)
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matches, hitBudget := def.Match(c, DefaultEnumerator{}, Budget{MaxPerLeg: []int{2}})
	if len(matches) != 2 {
		t.Fatalf("Match() returned %d matches, want exactly 2 under maxMatchesPerLeg[0]=2", len(matches))
	}
	if !hitBudget {
		t.Fatal("expected hitBudget=true when leg 0 had more eligible candidates than its cap allowed")
	}
}

func TestStrategyDefinition_MatchHonorsDeadline(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 95, -1),
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	matches, hitBudget := def.Match(c, DefaultEnumerator{}, Budget{Deadline: past})
	if len(matches) != 0 {
		t.Fatalf("expected no matches once the deadline has already passed, got %d", len(matches))
	}
	if !hitBudget {
		t.Fatal("expected hitBudget=true when the deadline had already passed")
	}
}
