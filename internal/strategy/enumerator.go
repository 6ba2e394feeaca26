package strategy

import (
	"sort"

	"github.com/eddiefleurent/stratmatch/internal/models"
)

// Enumerator decides the order a leg's candidate positions are tried in,
// independent of the filtering predicates themselves (spec.md §4.6). Order
// only affects which of several equally valid matches is found first —
// never whether a match exists.
type Enumerator interface {
	Order(c models.OptionPositionCollection) []models.OptionPosition
}

// DefaultEnumerator tries candidates in the collection's natural order: the
// underlying (if present), then options by (Right, Strike, Expiration).
type DefaultEnumerator struct{}

// Order implements Enumerator.
func (DefaultEnumerator) Order(c models.OptionPositionCollection) []models.OptionPosition {
	return c.All()
}

// AbsoluteRiskEnumerator orders candidates to prefer consuming defined,
// capped-risk structures first: the underlying, then every long position,
// then short puts ascending by strike, then short calls ascending by strike
// (spec.md §4.6). Within each group the existing (Right, Strike, Expiration)
// order from the collection is preserved.
type AbsoluteRiskEnumerator struct{}

// Order implements Enumerator.
func (AbsoluteRiskEnumerator) Order(c models.OptionPositionCollection) []models.OptionPosition {
	all := c.All()
	var underlying []models.OptionPosition
	var long []models.OptionPosition
	var shortPuts []models.OptionPosition
	var shortCalls []models.OptionPosition

	for _, p := range all {
		switch {
		case p.Symbol.SecurityType != models.SecurityOption:
			underlying = append(underlying, p)
		case p.Quantity > 0:
			long = append(long, p)
		case p.Symbol.Right == models.Put:
			shortPuts = append(shortPuts, p)
		case p.Symbol.Right == models.Call:
			shortCalls = append(shortCalls, p)
		default:
			panic(ErrUnknownEnumeratorCase)
		}
	}

	sortByStrike(shortPuts)
	sortByStrike(shortCalls)

	out := make([]models.OptionPosition, 0, len(all))
	out = append(out, underlying...)
	out = append(out, long...)
	out = append(out, shortPuts...)
	out = append(out, shortCalls...)
	return out
}

func sortByStrike(ps []models.OptionPosition) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Symbol.Strike.LessThan(ps[j].Symbol.Strike)
	})
}
