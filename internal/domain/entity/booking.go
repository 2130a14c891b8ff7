package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

type Booking struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"session_id"`
	Unit         value.UnitKey   `json:"unit"`
	Stay         StayContext     `json:"stay"`
	SettledPrice decimal.Decimal `json:"settled_price"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Currency     value.Currency  `json:"currency"`
	CommittedAt  time.Time       `json:"committed_at"`
}

// CommitResult reports a commit attempt. Drift is set only when the commit
// was refused by the integrity check.
type CommitResult struct {
	Committed bool            `json:"committed"`
	Drift     decimal.Decimal `json:"drift"`
	Booking   *Booking        `json:"booking,omitempty"`
}
