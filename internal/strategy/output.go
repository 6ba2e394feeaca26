package strategy

import "github.com/eddiefleurent/stratmatch/internal/models"

// OptionLeg is one materialized option leg of a matched strategy, with its
// quantity rescaled to the strategy's overall multiplier (spec.md §6).
type OptionLeg struct {
	Symbol   models.Symbol `json:"symbol"`
	Quantity int           `json:"quantity"`
}

// Strategy is the externally reported result of a successful match: the
// definition name, the overall multiplier, and every leg at that common
// scale — including underlying lots, if the definition required any.
type Strategy struct {
	DefinitionName   string        `json:"definition_name"`
	Multiplier       int           `json:"multiplier"`
	UnderlyingSymbol models.Symbol `json:"underlying_symbol"`
	UnderlyingLots   int           `json:"underlying_lots"`
	Legs             []OptionLeg   `json:"legs"`
}

// Materialize converts a raw StrategyDefinitionMatch into its reported form.
// The match's legs carry each leg's own per-leg multiplier (which can exceed
// the strategy's overall multiplier, since it reflects how much of that
// single candidate's quantity could fill the leg); here, as in
// OptionPositionCollection.Accept, every leg is rescaled to the overall
// multiplier, per spec.md §6's strategy materialization.
func Materialize(underlying string, match models.StrategyDefinitionMatch) Strategy {
	overall := match.Multiplier()
	legs := make([]OptionLeg, 0, len(match.Legs))
	for _, leg := range match.Legs {
		unit := 0
		if leg.Multiplier != 0 {
			unit = leg.Position.Quantity / leg.Multiplier
		}
		legs = append(legs, OptionLeg{
			Symbol:   leg.Position.Symbol,
			Quantity: overall * unit,
		})
	}
	return Strategy{
		DefinitionName:   match.DefinitionName,
		Multiplier:       overall,
		UnderlyingSymbol: models.NewEquitySymbol(underlying),
		UnderlyingLots:   match.UnderlyingLots * overall,
		Legs:             legs,
	}
}
