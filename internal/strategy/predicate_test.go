package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/shopspring/decimal"
)

func testLegPosition(right models.Right, strike float64, qty int) models.OptionPosition {
	sym := models.NewOptionSymbol("SPY", right, decimal.NewFromFloat(strike),
		time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC), models.American)
	return models.OptionPosition{Symbol: sym, Quantity: qty}
}

func TestNewPredicate_RejectsBothCandidate(t *testing.T) {
	_, err := NewPredicate(TargetStrike, Candidate(), models.CmpLT, Candidate())
	if !errors.Is(err, ErrInvalidPredicateForm) {
		t.Fatalf("expected ErrInvalidPredicateForm, got %v", err)
	}
}

func TestNewPredicate_RejectsNeitherCandidate(t *testing.T) {
	lit := Ref(LiteralStrike(decimal.NewFromInt(100)))
	_, err := NewPredicate(TargetStrike, lit, models.CmpLT, lit)
	if !errors.Is(err, ErrInvalidPredicateForm) {
		t.Fatalf("expected ErrInvalidPredicateForm, got %v", err)
	}
}

func TestNewPredicate_FlipsWhenCandidateOnRight(t *testing.T) {
	ref := Ref(LiteralStrike(decimal.NewFromInt(100)))
	p, err := NewPredicate(TargetStrike, ref, models.CmpLT, Candidate())
	if err != nil {
		t.Fatalf("NewPredicate: %v", err)
	}
	// "100 < candidate" normalizes to "candidate > 100".
	if p.Comparison != models.CmpGT {
		t.Fatalf("Comparison = %s, want %s", p.Comparison, models.CmpGT)
	}
}

func TestNewPredicate_NoFlipWhenCandidateOnLeft(t *testing.T) {
	ref := Ref(LiteralStrike(decimal.NewFromInt(100)))
	p, err := NewPredicate(TargetStrike, Candidate(), models.CmpLT, ref)
	if err != nil {
		t.Fatalf("NewPredicate: %v", err)
	}
	if p.Comparison != models.CmpLT {
		t.Fatalf("Comparison = %s, want %s", p.Comparison, models.CmpLT)
	}
}

func TestPredicate_MatchesLiteralStrike(t *testing.T) {
	p := WhereStrike(models.CmpGT, LiteralStrike(decimal.NewFromInt(100)))
	above := testLegPosition(models.Call, 105, 1)
	below := testLegPosition(models.Call, 95, 1)

	if !p.Matches(nil, above) {
		t.Error("expected strike 105 > 100 to match")
	}
	if p.Matches(nil, below) {
		t.Error("expected strike 95 > 100 to not match")
	}
}

func TestPredicate_MatchesLegAttribute(t *testing.T) {
	p := WhereStrike(models.CmpEQ, LegStrike(0))
	leg0 := testLegPosition(models.Call, 450, 1)
	matching := testLegPosition(models.Call, 450, 1)
	mismatch := testLegPosition(models.Call, 455, 1)

	if !p.Matches([]models.OptionPosition{leg0}, matching) {
		t.Error("expected strike equal to leg 0's strike to match")
	}
	if p.Matches([]models.OptionPosition{leg0}, mismatch) {
		t.Error("expected differing strike to not match")
	}
}

func TestPredicate_MatchesUnresolvedLegAttributeIsFalse(t *testing.T) {
	// References leg 0 but no legs have been matched yet.
	p := WhereStrike(models.CmpEQ, LegStrike(0))
	candidate := testLegPosition(models.Call, 450, 1)
	if p.Matches(nil, candidate) {
		t.Error("expected unresolved leg reference to not match")
	}
}

func TestPredicate_MatchesRejectsUnderlying(t *testing.T) {
	p := WhereStrike(models.CmpGT, LiteralStrike(decimal.NewFromInt(0)))
	underlying := models.OptionPosition{Symbol: models.NewEquitySymbol("SPY"), Quantity: 100}
	if p.Matches(nil, underlying) {
		t.Error("expected underlying equity position to never match a strike predicate")
	}
}

func TestPredicate_FilterPushesIntoIndex(t *testing.T) {
	holdings := []models.OptionPosition{
		testLegPosition(models.Call, 440, 1),
		testLegPosition(models.Call, 450, 1),
		testLegPosition(models.Call, 460, 1),
	}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := WhereStrike(models.CmpGE, LiteralStrike(decimal.NewFromInt(450)))
	narrowed, ok := p.Filter(nil, c)
	if !ok {
		t.Fatal("Filter should resolve a literal reference")
	}
	if narrowed.OptionOnlyCount() != 2 {
		t.Fatalf("Filter(>=450) count = %d, want 2", narrowed.OptionOnlyCount())
	}
}

func TestPredicate_FilterFallsBackWhenUnresolved(t *testing.T) {
	holdings := []models.OptionPosition{testLegPosition(models.Call, 450, 1)}
	c, err := models.Create("SPY", holdings)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := WhereStrike(models.CmpEQ, LegStrike(0))
	narrowed, ok := p.Filter(nil, c)
	if ok {
		t.Fatal("Filter should not resolve an unbound leg reference")
	}
	if narrowed.OptionOnlyCount() != c.OptionOnlyCount() {
		t.Fatal("Filter should return the collection unchanged when unresolved")
	}
}
