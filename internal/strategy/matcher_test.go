package strategy

import (
	"testing"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_RunPrefersEarlierDefinitions(t *testing.T) {
	straddle, err := NewStrategy("straddle").
		Leg(models.Call, 1).
		Leg(models.Put, 1, WhereStrike(models.CmpEQ, LegStrike(0)), WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Build()
	require.NoError(t, err)
	spread := bullCallSpreadDef(t)

	// Holdings support both a straddle and a spread, but not both at once:
	// there is only one call. The first listed definition wins.
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Put, 100, 1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{straddle, spread}, MatcherOptions{})
	result, err := m.Run(c)
	require.NoError(t, err)
	require.Len(t, result.Strategies, 1)
	assert.Equal(t, "straddle", result.Strategies[0].DefinitionName, "listed first, so preferred")
}

func TestMatcher_RunDrainsMultipleInstances(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 95, -1),
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Call, 105, -1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{def}, MatcherOptions{})
	result, err := m.Run(c)
	require.NoError(t, err)
	assert.Len(t, result.Strategies, 2)
	assert.True(t, result.Remaining.IsEmpty())
}

func TestMatcher_RunHonorsMaxTotalMatches(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 95, -1),
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Call, 105, -1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{def}, MatcherOptions{MaxTotalMatches: 1})
	result, err := m.Run(c)
	require.NoError(t, err)
	assert.Len(t, result.Strategies, 1)
	assert.True(t, result.HitBudget)
}

func TestMatcher_RunStopsWhenNothingMatches(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{testLegPosition(models.Put, 100, 1)}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{def}, MatcherOptions{})
	result, err := m.Run(c)
	require.NoError(t, err)
	assert.Empty(t, result.Strategies)
	assert.Equal(t, 1, result.Remaining.Count())
}

func TestMaterialize_RescalesAllLegsToOverallMultiplier(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 95, 5),
		testLegPosition(models.Call, 100, -3),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
	require.Len(t, matches, 1)

	out := Materialize("SPY", matches[0])
	assert.Equal(t, 3, out.Multiplier)
	require.Len(t, out.Legs, 2)
	for _, leg := range out.Legs {
		assert.Contains(t, []int{3, -3}, leg.Quantity, "leg %+v should rescale to magnitude 3", leg)
	}
}

// TestMatcher_RunComposesIronCondorFromTwoVerticals is spec.md §8 scenario
// S7: a four-leg portfolio that is exactly a Bear Call Spread stacked on a
// Bull Put Spread, same expiration, matches both definitions across two
// matchOnce iterations — library order lists Bear Call Spread before Bull
// Put Spread — leaving nothing behind. An iron condor isn't a dedicated
// definition; it falls out of the matcher loop composing two already-
// required verticals.
func TestMatcher_RunComposesIronCondorFromTwoVerticals(t *testing.T) {
	bearCall, err := bearCallSpread().Build()
	require.NoError(t, err)
	bullPut, err := bullPutSpread().Build()
	require.NoError(t, err)

	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 110, -1),
		testLegPosition(models.Call, 120, 1),
		testLegPosition(models.Put, 90, -1),
		testLegPosition(models.Put, 80, 1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{bearCall, bullPut}, MatcherOptions{})
	result, err := m.Run(c)
	require.NoError(t, err)
	require.Len(t, result.Strategies, 2)
	assert.Equal(t, "bear_call_spread", result.Strategies[0].DefinitionName, "listed first, so matched first")
	assert.Equal(t, "bull_put_spread", result.Strategies[1].DefinitionName)
	assert.True(t, result.Remaining.IsEmpty())
}

// TestMatcher_RunHonorsMaxMatchesPerLeg is spec.md §8 scenario S9 at the
// Matcher level: maxMatchesPerLeg[0] = 2 caps how many leg-0 candidates
// matchOnce's search tries before giving up on the straddle entirely, even
// though a valid instance exists further down the candidate order (the put
// partner is only at the third call strike).
func TestMatcher_RunHonorsMaxMatchesPerLeg(t *testing.T) {
	straddle, err := NewStrategy("straddle").
		Leg(models.Call, 1).
		Leg(models.Put, 1, WhereStrike(models.CmpEQ, LegStrike(0)), WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Build()
	require.NoError(t, err)

	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 100, 1),
		testLegPosition(models.Call, 101, 1),
		testLegPosition(models.Call, 102, 1),
		testLegPosition(models.Put, 102, 1), // only eligible anchor is the 3rd call tried
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{straddle}, MatcherOptions{MaxMatchesPerLeg: []int{2}})
	result, err := m.Run(c)
	require.NoError(t, err)
	assert.Empty(t, result.Strategies, "cap gives up before reaching the only call with a matching put")
	assert.True(t, result.HitBudget)
}

func TestMatcher_RunRespectsAlreadyPassedDeadline(t *testing.T) {
	def := bullCallSpreadDef(t)
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 95, -1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	m := NewMatcher([]StrategyDefinition{def}, MatcherOptions{MaxDuration: -time.Hour})
	result, err := m.Run(c)
	require.NoError(t, err)
	assert.Empty(t, result.Strategies)
	assert.True(t, result.HitBudget)
}
