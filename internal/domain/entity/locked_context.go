package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

// LockedContext is everything checkout needs, fixed at settlement. Screens
// after settlement read it instead of live form state.
type LockedContext struct {
	Unit            value.UnitKey   `json:"unit"`
	Stay            StayContext     `json:"stay"`
	SettledPrice    decimal.Decimal `json:"settled_price"`
	MandatoryExtras []Extra         `json:"mandatory_extras"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Currency        value.Currency  `json:"currency"`
	LockedAt        time.Time       `json:"locked_at"`
}

func (c LockedContext) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	for _, extra := range c.MandatoryExtras {
		total = total.Add(extra.Amount)
	}
	return total
}

// Clone returns a copy that shares no slices with c.
func (c LockedContext) Clone() LockedContext {
	c.MandatoryExtras = slices.Clone(c.MandatoryExtras)
	return c
}
