package strategy

import "github.com/eddiefleurent/stratmatch/internal/models"

// equalStrikeSpacing guards a three-leg wing structure (legs[0], legs[1],
// legs[2] ordered low-to-high strike): the gap from the low wing to the
// body must equal the gap from the body to the high wing. This relates two
// already-matched legs' strikes to each other rather than a candidate to a
// single reference, so it can't be expressed as a {target, comparison,
// reference} predicate on either leg and is checked as a whole-match guard
// instead (spec.md §8 scenario S3).
func equalStrikeSpacing(legs []models.OptionPosition) bool {
	if len(legs) < 3 {
		return true
	}
	lowToBody := legs[1].Symbol.Strike.Sub(legs[0].Symbol.Strike)
	bodyToHigh := legs[2].Symbol.Strike.Sub(legs[1].Symbol.Strike)
	return lowToBody.Equal(bodyToHigh)
}

// Library is the fixed set of built-in strategy definitions spec.md §4.5
// requires the matcher ship with. Each is grounded on a standard two- or
// three-leg options structure; none requires underlying stock.
func Library() ([]StrategyDefinition, error) {
	builders := []*Builder{
		bullCallSpread(),
		bearCallSpread(),
		bullPutSpread(),
		bearPutSpread(),
		longStraddle(),
		longStrangle(),
		callButterfly(),
		putButterfly(),
		callCalendarSpread(),
		putCalendarSpread(),
	}
	out := make([]StrategyDefinition, 0, len(builders))
	for _, b := range builders {
		def, err := b.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// bullCallSpread: long the lower-strike call, short a higher-strike call,
// same expiration.
func bullCallSpread() *Builder {
	return NewStrategy("bull_call_spread").
		Leg(models.Call, 1).
		Leg(models.Call, -1,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// bearCallSpread: short the lower-strike call, long a higher-strike call,
// same expiration.
func bearCallSpread() *Builder {
	return NewStrategy("bear_call_spread").
		Leg(models.Call, -1).
		Leg(models.Call, 1,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// bullPutSpread: short the higher-strike put, long a lower-strike put, same
// expiration.
func bullPutSpread() *Builder {
	return NewStrategy("bull_put_spread").
		Leg(models.Put, -1).
		Leg(models.Put, 1,
			WhereStrike(models.CmpLT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// bearPutSpread: long the higher-strike put, short a lower-strike put, same
// expiration.
func bearPutSpread() *Builder {
	return NewStrategy("bear_put_spread").
		Leg(models.Put, 1).
		Leg(models.Put, -1,
			WhereStrike(models.CmpLT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// longStraddle: long a call and a put at the same strike and expiration.
func longStraddle() *Builder {
	return NewStrategy("long_straddle").
		Leg(models.Call, 1).
		Leg(models.Put, 1,
			WhereStrike(models.CmpEQ, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// longStrangle: long an out-of-the-money put and an out-of-the-money call,
// same expiration, put strike below call strike.
func longStrangle() *Builder {
	return NewStrategy("long_strangle").
		Leg(models.Put, 1).
		Leg(models.Call, 1,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0)))
}

// callButterfly: long one low-strike call, short two middle-strike calls,
// long one high-strike call, all the same expiration, with the low-to-body
// and body-to-high strike gaps equal (enforced by equalStrikeSpacing, not a
// leg predicate — spec.md §8 scenario S3).
func callButterfly() *Builder {
	return NewStrategy("call_butterfly").
		Leg(models.Call, 1).
		Leg(models.Call, -2,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Leg(models.Call, 1,
			WhereStrike(models.CmpGT, LegStrike(1)),
			WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Guard(equalStrikeSpacing)
}

// putButterfly: the put-side mirror of callButterfly.
func putButterfly() *Builder {
	return NewStrategy("put_butterfly").
		Leg(models.Put, 1).
		Leg(models.Put, -2,
			WhereStrike(models.CmpGT, LegStrike(0)),
			WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Leg(models.Put, 1,
			WhereStrike(models.CmpGT, LegStrike(1)),
			WhereExpiration(models.CmpEQ, LegExpiration(0))).
		Guard(equalStrikeSpacing)
}

// callCalendarSpread: short the near-term call, long a later-expiring call
// at the same strike.
func callCalendarSpread() *Builder {
	return NewStrategy("call_calendar_spread").
		Leg(models.Call, -1).
		Leg(models.Call, 1,
			WhereStrike(models.CmpEQ, LegStrike(0)),
			WhereExpiration(models.CmpGT, LegExpiration(0)))
}

// putCalendarSpread: the put-side mirror of callCalendarSpread.
func putCalendarSpread() *Builder {
	return NewStrategy("put_calendar_spread").
		Leg(models.Put, -1).
		Leg(models.Put, 1,
			WhereStrike(models.CmpEQ, LegStrike(0)),
			WhereExpiration(models.CmpGT, LegExpiration(0)))
}
