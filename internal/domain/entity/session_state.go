package entity

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

// SessionState is a read-only view of a negotiation session.
type SessionState struct {
	ID               string
	Unit             value.UnitKey
	Reference        ReferencePrice
	Phase            value.Phase
	CounterOffer     *CounterOffer
	GrandTotal       *decimal.Decimal
	ValidUntil       *time.Time
	RemainingUnits   int
	Attempts         []Attempt
	LastRejection    string // error code of the last rejected submission
	NegotiationSteps int    // progress ticks completed in the current negotiation
}

func (s SessionState) TriedPrices() []decimal.Decimal {
	return lo.Map(s.Attempts, func(a Attempt, _ int) decimal.Decimal {
		return a.TargetPrice
	})
}

// SettledOffer is delivered to onSettled subscribers.
type SettledOffer struct {
	SessionID    string
	Unit         value.UnitKey
	Outcome      value.Outcome
	SettledPrice decimal.Decimal
	GrandTotal   decimal.Decimal
	ValidUntil   time.Time
}
