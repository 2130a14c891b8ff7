// Package integrity makes sure the price agreed during negotiation is the
// price charged at checkout.
package integrity

import (
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/entity"
)

// DefaultEpsilon is the smallest difference treated as drift.
var DefaultEpsilon = decimal.RequireFromString("0.01") //nolint:gochecknoglobals

type Guard struct {
	epsilon        decimal.Decimal
	roundingPlaces int32
}

type Verification struct {
	IsValid bool
	Drift   decimal.Decimal
}

func NewGuard(epsilon decimal.Decimal, roundingPlaces int32) *Guard {
	if !epsilon.IsPositive() {
		epsilon = DefaultEpsilon
	}

	return &Guard{
		epsilon:        epsilon,
		roundingPlaces: roundingPlaces,
	}
}

// Total is the all-in price of a locked context:
// settled + extras + round((settled + extras) * taxRate), rounded.
func (g *Guard) Total(lc entity.LockedContext) decimal.Decimal {
	subtotal := lc.SettledPrice.Add(lc.ExtrasTotal())
	tax := subtotal.Mul(lc.TaxRate).Round(g.roundingPlaces)

	return subtotal.Add(tax).Round(g.roundingPlaces)
}

// Capture freezes the grand total of lc. The snapshot keeps its own copy of
// the context.
func (g *Guard) Capture(lc entity.LockedContext, now time.Time) entity.PriceSnapshot {
	lc = lc.Clone()

	return entity.PriceSnapshot{
		GrandTotal: g.Total(lc),
		CapturedAt: now,
		Context:    lc,
	}
}

func (g *Guard) Verify(snapshot entity.PriceSnapshot, computedTotal decimal.Decimal) Verification {
	drift := computedTotal.Sub(snapshot.GrandTotal).Abs()

	return Verification{
		IsValid: drift.LessThan(g.epsilon),
		Drift:   drift,
	}
}
