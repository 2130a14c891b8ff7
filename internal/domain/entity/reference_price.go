package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

// ReferencePrice is the catalog quote for a unit over the entire stay or
// itinerary, in the canonical currency.
type ReferencePrice struct {
	Unit     value.UnitKey   `json:"unit"`
	Amount   decimal.Decimal `json:"amount"`
	QuotedAt time.Time       `json:"quoted_at"`
}
