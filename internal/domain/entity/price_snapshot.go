package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is the fully loaded total shown to the user at settlement.
// It is carried forward to commit and never recomputed.
type PriceSnapshot struct {
	GrandTotal decimal.Decimal `json:"grand_total"`
	CapturedAt time.Time       `json:"captured_at"`
	Context    LockedContext   `json:"context"`
}
