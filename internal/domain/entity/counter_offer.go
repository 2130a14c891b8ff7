package entity

import (
	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

type CounterOffer struct {
	Outcome        value.Outcome   `json:"outcome"`
	Band           value.AskBand   `json:"band"`
	SettledPrice   decimal.Decimal `json:"settled_price"`
	RequestedPrice decimal.Decimal `json:"requested_price"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
	Discount       decimal.Decimal `json:"discount"` // (reference - requested) / reference
}

func (c CounterOffer) Accepted() bool {
	return c.Outcome == value.OutcomeAccepted
}
