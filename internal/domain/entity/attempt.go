package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

// Attempt is one target price that passed validation and reached the engine.
type Attempt struct {
	Unit           value.UnitKey   `json:"unit"`
	TargetPrice    decimal.Decimal `json:"target_price"` // canonical currency
	Currency       value.Currency  `json:"currency"`     // as submitted
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Timestamp      time.Time       `json:"timestamp"`
}
