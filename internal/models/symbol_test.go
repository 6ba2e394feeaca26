package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSymbol_EquityVsOption(t *testing.T) {
	eq := NewEquitySymbol("SPY")
	if eq.HasUnderlying() {
		t.Error("equity symbol should not report HasUnderlying")
	}

	opt := testOptionSymbol(Call, 450)
	if !opt.HasUnderlying() {
		t.Error("option symbol should report HasUnderlying")
	}
}

func TestSymbol_Equal(t *testing.T) {
	a := testOptionSymbol(Call, 450)
	b := testOptionSymbol(Call, 450)
	if !a.Equal(b) {
		t.Error("identically constructed option symbols should be equal")
	}

	c := testOptionSymbol(Put, 450)
	if a.Equal(c) {
		t.Error("symbols differing only by right should not be equal")
	}

	d := testOptionSymbol(Call, 455)
	if a.Equal(d) {
		t.Error("symbols differing only by strike should not be equal")
	}
}

func TestSymbol_EqualIgnoresStyleForEquity(t *testing.T) {
	a := NewEquitySymbol("SPY")
	b := NewEquitySymbol("SPY")
	b.Style = European
	if !a.Equal(b) {
		t.Error("equity symbols on the same underlying should be equal")
	}

	c := NewEquitySymbol("QQQ")
	if a.Equal(c) {
		t.Error("equity symbols on different underlyings should not be equal")
	}
}

func TestSymbol_KeyStableAndUnique(t *testing.T) {
	a := testOptionSymbol(Call, 450)
	b := testOptionSymbol(Call, 450)
	if a.key() != b.key() {
		t.Errorf("identical symbols produced different keys: %q vs %q", a.key(), b.key())
	}

	distinct := []Symbol{
		NewEquitySymbol("SPY"),
		testOptionSymbol(Call, 450),
		testOptionSymbol(Put, 450),
		testOptionSymbol(Call, 455),
		NewOptionSymbol("SPY", Call, decimal.NewFromFloat(450), time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), American),
	}
	seen := make(map[string]bool)
	for _, s := range distinct {
		k := s.key()
		if seen[k] {
			t.Errorf("key collision for %+v: %q", s, k)
		}
		seen[k] = true
	}
}

func TestSymbol_RightString(t *testing.T) {
	if Put.String() != "Put" {
		t.Errorf("Put.String() = %q, want Put", Put.String())
	}
	if Call.String() != "Call" {
		t.Errorf("Call.String() = %q, want Call", Call.String())
	}
}
