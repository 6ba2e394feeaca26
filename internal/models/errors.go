package models

import "errors"

// ErrMismatchedSymbols is returned when combining two positions whose
// symbols differ and neither side is the zero-value identity position.
var ErrMismatchedSymbols = errors.New("models: mismatched symbols")
