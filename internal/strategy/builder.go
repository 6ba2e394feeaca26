package strategy

import "github.com/eddiefleurent/stratmatch/internal/models"

// Builder constructs a StrategyDefinition one leg at a time, validating each
// leg's predicates as they're added: rejecting forward or self leg
// references (spec.md §4.5) before they can corrupt a search at match time.
type Builder struct {
	name           string
	underlyingLots int
	legs           []LegDefinition
	guard          func(legs []models.OptionPosition) bool
	err            error
}

// NewStrategy starts building a strategy definition named name.
func NewStrategy(name string) *Builder {
	return &Builder{name: name}
}

// Underlying sets the lots of underlying stock the strategy requires
// alongside its option legs (0 for a pure options strategy).
func (b *Builder) Underlying(lots int) *Builder {
	b.underlyingLots = lots
	return b
}

// Leg appends a leg requiring right and quantity unit contracts, narrowed by
// the given predicates. Any predicate referencing LegStrike/LegRight/
// LegExpiration at or after this leg's own index is rejected: only legs
// already appended may be referenced.
func (b *Builder) Leg(right models.Right, quantity int, predicates ...Predicate) *Builder {
	if b.err != nil {
		return b
	}
	thisIndex := len(b.legs)
	for _, p := range predicates {
		if idx, ok := p.forwardLegIndex(); ok && idx >= thisIndex {
			b.err = ErrForwardLegReference
			return b
		}
	}
	b.legs = append(b.legs, LegDefinition{
		Right:      right,
		Quantity:   quantity,
		Predicates: append([]Predicate(nil), predicates...),
	})
	return b
}

// Guard attaches a whole-match check run once every leg is bound, for
// constraints a single leg's predicates can't express — a relation between
// two already-matched legs rather than between a candidate and one
// reference (e.g. a butterfly's equal strike spacing).
func (b *Builder) Guard(g func(legs []models.OptionPosition) bool) *Builder {
	b.guard = g
	return b
}

// Build finalizes the definition, returning the first construction error
// encountered, if any.
func (b *Builder) Build() (StrategyDefinition, error) {
	if b.err != nil {
		return StrategyDefinition{}, b.err
	}
	return StrategyDefinition{
		Name:           b.name,
		UnderlyingLots: b.underlyingLots,
		Legs:           append([]LegDefinition(nil), b.legs...),
		Guard:          b.guard,
	}, nil
}
