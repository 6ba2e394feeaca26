package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Right is the contract right: Put or Call.
type Right int

const (
	// Put is a put contract.
	Put Right = iota
	// Call is a call contract.
	Call
)

// String renders the right as "Put" or "Call".
func (r Right) String() string {
	if r == Put {
		return "Put"
	}
	return "Call"
}

// SecurityType distinguishes the underlying equity from option contracts
// written on it.
type SecurityType int

const (
	// SecurityEquity is the underlying share symbol itself.
	SecurityEquity SecurityType = iota
	// SecurityOption is an option contract on the underlying.
	SecurityOption
)

// OptionStyle is the exercise style of an option contract. The core never
// branches on this field; it is carried through from the holdings source
// because spec.md §6 names it as part of the minimal symbol shape.
type OptionStyle int

const (
	// American options may be exercised any time before expiration.
	American OptionStyle = iota
	// European options may only be exercised at expiration.
	European
)

// Symbol identifies either the underlying equity or one option contract
// written on it. Construction is the caller's responsibility (spec.md §6);
// the core only reads these fields.
type Symbol struct {
	Underlying   string          `json:"underlying"`
	SecurityType SecurityType    `json:"security_type"`
	Style        OptionStyle     `json:"style,omitempty"`
	Right        Right           `json:"right,omitempty"`
	Strike       decimal.Decimal `json:"strike,omitempty"`
	Expiration   time.Time       `json:"expiration,omitempty"`
}

// HasUnderlying reports whether this symbol is an option contract (true) as
// opposed to the equity itself (false).
func (s Symbol) HasUnderlying() bool {
	return s.SecurityType == SecurityOption
}

// Equal reports structural equality between two symbols.
func (s Symbol) Equal(o Symbol) bool {
	if s.SecurityType != o.SecurityType || s.Underlying != o.Underlying {
		return false
	}
	if s.SecurityType == SecurityEquity {
		return true
	}
	return s.Right == o.Right &&
		s.Style == o.Style &&
		s.Strike.Equal(o.Strike) &&
		s.Expiration.Equal(o.Expiration)
}

// NewEquitySymbol builds the symbol for the underlying share itself.
func NewEquitySymbol(underlying string) Symbol {
	return Symbol{Underlying: underlying, SecurityType: SecurityEquity}
}

// NewOptionSymbol builds an option contract symbol.
func NewOptionSymbol(underlying string, right Right, strike decimal.Decimal, expiration time.Time, style OptionStyle) Symbol {
	return Symbol{
		Underlying:   underlying,
		SecurityType: SecurityOption,
		Style:        style,
		Right:        right,
		Strike:       strike,
		Expiration:   expiration,
	}
}

// key is the map key used by OptionPositionCollection's positions map. Two
// distinct equity symbols on different underlyings never collide with a
// collection scoped to one underlying, but the key stays unambiguous
// regardless.
func (s Symbol) key() string {
	if s.SecurityType == SecurityEquity {
		return "EQ:" + s.Underlying
	}
	return s.Underlying + ":" + s.Right.String() + ":" + s.Strike.String() + ":" + s.Expiration.Format(time.RFC3339)
}
