package holdings

import (
	"context"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/shopspring/decimal"
)

// MockSource is a deterministic, in-memory Source useful for demos and
// tests: it returns a fixed book of positions around a center strike, all
// on one expiration (spec.md's holdings source is an external collaborator
// the matcher never controls the shape of, so a canned fixture is a
// faithful stand-in).
type MockSource struct {
	CenterStrike decimal.Decimal
	Expiration   time.Time
}

// NewMockSource builds a MockSource centered at centerStrike, expiring in
// roughly 30 days.
func NewMockSource(centerStrike float64) *MockSource {
	return &MockSource{
		CenterStrike: decimal.NewFromFloat(centerStrike),
		Expiration:   time.Now().AddDate(0, 0, 30).Truncate(24 * time.Hour),
	}
}

// Holdings implements Source with a fixed book on the same underlying and
// expiration: a long put at -10 and a long call at +10 (a long strangle),
// a short call at +15, and a long put at -5 over a short put at -15 (two
// contracts each, a bear put spread).
func (m *MockSource) Holdings(_ context.Context, underlying string) ([]models.OptionPosition, error) {
	strike := func(offset float64) decimal.Decimal {
		return m.CenterStrike.Add(decimal.NewFromFloat(offset))
	}

	opt := func(right models.Right, offset float64, qty int) models.OptionPosition {
		sym := models.NewOptionSymbol(underlying, right, strike(offset), m.Expiration, models.American)
		return models.OptionPosition{Symbol: sym, Quantity: qty}
	}

	return []models.OptionPosition{
		opt(models.Put, -10, 1),
		opt(models.Call, 10, 1),
		opt(models.Call, 15, -1),
		opt(models.Put, -5, 2),
		opt(models.Put, -15, -2),
	}, nil
}
