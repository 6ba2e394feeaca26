package models

// OptionPosition is an immutable value: a symbol plus a signed quantity.
// The zero value (zero Symbol, zero Quantity) is the additive identity.
type OptionPosition struct {
	Symbol   Symbol
	Quantity int
}

// isIdentity reports whether p is the zero-symbol, zero-quantity identity.
func (p OptionPosition) isIdentity() bool {
	return p.Quantity == 0 && p.Symbol == Symbol{}
}

// Add combines two positions. It is defined when the symbols match or when
// either side is the additive identity; p+identity=p and identity+p=p.
// Combining positions on different, non-identity symbols is a hard error
// (spec.md §7 MismatchedSymbols).
func (p OptionPosition) Add(o OptionPosition) (OptionPosition, error) {
	if p.isIdentity() {
		return o, nil
	}
	if o.isIdentity() {
		return p, nil
	}
	if !p.Symbol.Equal(o.Symbol) {
		return OptionPosition{}, ErrMismatchedSymbols
	}
	return OptionPosition{Symbol: p.Symbol, Quantity: p.Quantity + o.Quantity}, nil
}

// Subtract returns p - o, i.e. p.Add(o.Negate()). The result may have the
// opposite sign from p; that is permitted (spec.md §4.2 remove).
func (p OptionPosition) Subtract(o OptionPosition) (OptionPosition, error) {
	return p.Add(o.Negate())
}

// Negate flips the sign of the quantity.
func (p OptionPosition) Negate() OptionPosition {
	return OptionPosition{Symbol: p.Symbol, Quantity: -p.Quantity}
}

// Scale multiplies the quantity by a scalar.
func (p OptionPosition) Scale(n int) OptionPosition {
	return OptionPosition{Symbol: p.Symbol, Quantity: p.Quantity * n}
}

// WithQuantity returns a copy of p carrying the given quantity.
func (p OptionPosition) WithQuantity(q int) OptionPosition {
	return OptionPosition{Symbol: p.Symbol, Quantity: q}
}

// Equal reports structural equality over (symbol, quantity).
func (p OptionPosition) Equal(o OptionPosition) bool {
	return p.Quantity == o.Quantity && p.Symbol.Equal(o.Symbol)
}

// Sign returns -1, 0, or 1.
func Sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
