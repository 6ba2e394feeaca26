package strategy

import (
	"testing"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callButterflyDef(t *testing.T) StrategyDefinition {
	t.Helper()
	def, err := callButterfly().Build()
	require.NoError(t, err)
	return def
}

// TestCallButterfly_RequiresEqualStrikeSpacing is spec.md §8 scenario S3:
// 90/100/110 (equal 10-point wings) matches; 90/100/115 (unequal wings)
// must yield zero matches even though both triples satisfy the ascending
// strike-order predicates on their own.
func TestCallButterfly_RequiresEqualStrikeSpacing(t *testing.T) {
	def := callButterflyDef(t)

	t.Run("equal spacing matches", func(t *testing.T) {
		holdings := []models.OptionPosition{
			testLegPosition(models.Call, 90, 1),
			testLegPosition(models.Call, 100, -2),
			testLegPosition(models.Call, 110, 1),
		}
		c, err := models.Create("SPY", holdings)
		require.NoError(t, err)

		matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
		assert.Len(t, matches, 1)
	})

	t.Run("unequal spacing yields nothing", func(t *testing.T) {
		holdings := []models.OptionPosition{
			testLegPosition(models.Call, 90, 1),
			testLegPosition(models.Call, 100, -2),
			testLegPosition(models.Call, 115, 1),
		}
		c, err := models.Create("SPY", holdings)
		require.NoError(t, err)

		matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
		assert.Empty(t, matches)
	})
}

func TestCallButterfly_TryMatchAlsoEnforcesGuard(t *testing.T) {
	def := callButterflyDef(t)
	legs := []models.OptionPosition{
		testLegPosition(models.Call, 90, 1),
		testLegPosition(models.Call, 100, -2),
		testLegPosition(models.Call, 115, 1),
	}
	_, ok := def.TryMatch(legs)
	assert.False(t, ok, "TryMatch must honor the same equal-spacing guard as Match")
}

func TestPutButterfly_RequiresEqualStrikeSpacing(t *testing.T) {
	def, err := putButterfly().Build()
	require.NoError(t, err)

	holdings := []models.OptionPosition{
		testLegPosition(models.Put, 90, 1),
		testLegPosition(models.Put, 100, -2),
		testLegPosition(models.Put, 108, 1),
	}
	c, err := models.Create("SPY", holdings)
	require.NoError(t, err)

	matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
	assert.Empty(t, matches, "10-point low wing vs 8-point high wing must not match")
}

// TestLibrary_CalendarSpreadStrikeEquality is spec.md §8 scenario S8: a put
// calendar spread requires equal strikes across two different expirations.
func TestLibrary_CalendarSpreadStrikeEquality(t *testing.T) {
	def, err := putCalendarSpread().Build()
	require.NoError(t, err)

	near := testLegPosition(models.Put, 100, -1)
	far := models.OptionPosition{
		Symbol:   models.NewOptionSymbol("SPY", models.Put, near.Symbol.Strike, near.Symbol.Expiration.AddDate(0, 1, 0), models.American),
		Quantity: 1,
	}
	c, err := models.Create("SPY", []models.OptionPosition{near, far})
	require.NoError(t, err)

	matches, _ := def.Match(c, DefaultEnumerator{}, Budget{})
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Multiplier())
}

func TestLibrary_BuildsAllTenDefinitions(t *testing.T) {
	defs, err := Library()
	require.NoError(t, err)
	assert.Len(t, defs, 10)
}
