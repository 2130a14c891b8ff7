package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StayContext holds the dates and party the quote was made for. For flights
// CheckOut is the return date or zero for one-way itineraries.
type StayContext struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Adults   int       `json:"adults"`
	Children int       `json:"children"`
	Rooms    int       `json:"rooms"`
}

func (s StayContext) Guests() int {
	return s.Adults + s.Children
}

func (s StayContext) Nights() int {
	if s.CheckOut.IsZero() || !s.CheckOut.After(s.CheckIn) {
		return 0
	}
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24) //nolint:mnd
}

// Extra is a mandatory add-on charged on top of the unit price.
type Extra struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
