package view_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/internal/transport/bot/view"
)

func TestOffer(t *testing.T) {
	rq := require.New(t)

	state := entity.SessionState{
		Unit: value.NewUnitKey("hotel-42", "deluxe<king>"),
		CounterOffer: &entity.CounterOffer{
			Outcome:        value.OutcomeCountered,
			SettledPrice:   decimal.RequireFromString("22518"),
			RequestedPrice: decimal.RequireFromString("14000"),
			ReferencePrice: decimal.RequireFromString("32168"),
		},
	}
	checkout := negotiation.Checkout{
		Context:    entity.LockedContext{Currency: "INR"},
		GrandTotal: decimal.RequireFromString("27456"),
		ValidUntil: time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC),
	}

	text := view.Offer(state, checkout)

	rq.Contains(text, "Counter-offer")
	rq.Contains(text, "hotel-42/deluxe&lt;king&gt;")
	rq.Contains(text, "22518.00")
	rq.Contains(text, "27456.00 INR")
	rq.Contains(text, "12:30:00")
	rq.NotContains(text, "Stay")

	checkout.Context.Stay = entity.StayContext{
		CheckIn:  time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC),
		Adults:   2,
		Children: 1,
		Rooms:    1,
	}
	rq.Contains(view.Offer(state, checkout), "<b>Stay:</b> 3 nights, 3 guests")

	state.CounterOffer.Outcome = value.OutcomeAccepted
	rq.Contains(view.Offer(state, checkout), "Accepted")
}

func TestFailure(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		code    string
		message string
		want    string
	}{
		{name: "With code", code: "PriceTooHigh", message: "too high", want: "❌ <b>PriceTooHigh</b>\ntoo high"},
		{name: "Without code", message: "a < b", want: "❌ a &lt; b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, view.Failure(tc.code, tc.message))
		})
	}
}

func TestStatus(t *testing.T) {
	rq := require.New(t)

	rq.Contains(view.Status(3, true), "<b>Live sessions:</b> 3")
	rq.Contains(view.Status(0, false), "🔴 off")
}
