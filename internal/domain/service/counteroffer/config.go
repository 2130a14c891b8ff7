package counteroffer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the negotiation constants. Zero values are not usable; start
// from DefaultConfig.
type Config struct {
	// Discount ratio at or below which an ask is modest.
	ModestThreshold decimal.Decimal
	// Discount ratio at or below which an ask is aggressive; above it the
	// ask is unreasonable.
	AggressiveThreshold decimal.Decimal
	// Probability of accepting a modest ask outright.
	AcceptProbability float64
	// Counter for a rejected modest ask: requested x ModestCounterMultiplier.
	ModestCounterMultiplier decimal.Decimal
	// Counter for an aggressive ask: requested x AggressiveCounterMultiplier,
	// capped at reference x CeilingMultiplier.
	AggressiveCounterMultiplier decimal.Decimal
	CeilingMultiplier           decimal.Decimal
	// Flat counter for an unreasonable ask: reference x FloorMultiplier.
	FloorMultiplier decimal.Decimal
	// Decimal places of the smallest currency unit.
	RoundingPlaces int32
}

func DefaultConfig() Config {
	return Config{
		ModestThreshold:             decimal.RequireFromString("0.30"),
		AggressiveThreshold:         decimal.RequireFromString("0.50"),
		AcceptProbability:           0.8, //nolint:mnd
		ModestCounterMultiplier:     decimal.RequireFromString("1.05"),
		AggressiveCounterMultiplier: decimal.RequireFromString("1.10"),
		CeilingMultiplier:           decimal.RequireFromString("0.80"),
		FloorMultiplier:             decimal.RequireFromString("0.70"),
		RoundingPlaces:              0,
	}
}

func (c Config) Validate() error {
	one := decimal.NewFromInt(1)

	var errs []error

	if !c.ModestThreshold.IsPositive() || c.ModestThreshold.GreaterThanOrEqual(one) {
		errs = append(errs, fmt.Errorf("modest threshold %s: want (0, 1)", c.ModestThreshold))
	}

	if c.AggressiveThreshold.LessThanOrEqual(c.ModestThreshold) || c.AggressiveThreshold.GreaterThanOrEqual(one) {
		errs = append(errs, fmt.Errorf("aggressive threshold %s: want (modest threshold, 1)", c.AggressiveThreshold))
	}

	if c.AcceptProbability < 0 || c.AcceptProbability > 1 {
		errs = append(errs, fmt.Errorf("accept probability %v: want [0, 1]", c.AcceptProbability))
	}

	if !c.ModestCounterMultiplier.GreaterThan(one) {
		errs = append(errs, fmt.Errorf("modest counter multiplier %s: want > 1", c.ModestCounterMultiplier))
	}

	if !c.AggressiveCounterMultiplier.GreaterThan(one) {
		errs = append(errs, fmt.Errorf("aggressive counter multiplier %s: want > 1", c.AggressiveCounterMultiplier))
	}

	if !c.FloorMultiplier.IsPositive() || c.FloorMultiplier.GreaterThanOrEqual(one) {
		errs = append(errs, fmt.Errorf("floor multiplier %s: want (0, 1)", c.FloorMultiplier))
	}

	if c.CeilingMultiplier.LessThan(c.FloorMultiplier) || c.CeilingMultiplier.GreaterThanOrEqual(one) {
		errs = append(errs, fmt.Errorf("ceiling multiplier %s: want [floor multiplier, 1)", c.CeilingMultiplier))
	}

	if c.RoundingPlaces < 0 {
		errs = append(errs, fmt.Errorf("rounding places %d: want >= 0", c.RoundingPlaces))
	}

	return errors.Join(errs...)
}
