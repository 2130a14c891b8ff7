package server

import (
	"fmt"
	"time"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/pkg/lox"
	"bargain/pkg/rest"
)

const dateLayout = time.DateOnly

func newDomainUnitKey(unit rest.UnitKey) value.UnitKey {
	return value.NewUnitKey(unit.ItemID, unit.RateName)
}

func newRESTUnitKey(unit value.UnitKey) rest.UnitKey {
	return rest.UnitKey{
		ItemID:   unit.ItemID,
		RateName: unit.RateName,
	}
}

func newDomainOpenRequest(request rest.OpenNegotiationRequest) (negotiation.OpenRequest, error) {
	stay, err := newDomainStay(request.Stay)
	if err != nil {
		return negotiation.OpenRequest{}, fmt.Errorf("newDomainStay: %w", err)
	}

	var quotedAt time.Time
	if request.QuotedAt != nil {
		quotedAt = *request.QuotedAt
	}

	return negotiation.OpenRequest{
		Unit:      newDomainUnitKey(request.Unit),
		Reference: request.ReferencePrice,
		QuotedAt:  quotedAt,
		Stay:      stay,
		Extras: lox.Map(request.Extras, func(extra rest.Extra) entity.Extra {
			return entity.Extra{Name: extra.Name, Amount: extra.Amount}
		}),
		TaxRate: request.TaxRate,
	}, nil
}

func newDomainStay(stay rest.Stay) (entity.StayContext, error) {
	checkIn, err := parseDate(stay.CheckIn)
	if err != nil {
		return entity.StayContext{}, fmt.Errorf("check-in: %w", err)
	}

	checkOut, err := parseDate(stay.CheckOut)
	if err != nil {
		return entity.StayContext{}, fmt.Errorf("check-out: %w", err)
	}

	if !checkIn.IsZero() && !checkOut.IsZero() && checkOut.Before(checkIn) {
		return entity.StayContext{}, fmt.Errorf("check-out %s is before check-in %s", stay.CheckOut, stay.CheckIn)
	}

	return entity.StayContext{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   stay.Adults,
		Children: stay.Children,
		Rooms:    stay.Rooms,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time.Parse: %w", err)
	}

	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}

func newRESTStay(stay entity.StayContext) rest.Stay {
	return rest.Stay{
		CheckIn:  formatDate(stay.CheckIn),
		CheckOut: formatDate(stay.CheckOut),
		Adults:   stay.Adults,
		Children: stay.Children,
		Rooms:    stay.Rooms,
	}
}

func newRESTExtras(extras []entity.Extra) []rest.Extra {
	return lox.Map(extras, func(extra entity.Extra) rest.Extra {
		return rest.Extra{Name: extra.Name, Amount: extra.Amount}
	})
}

func newRESTCounterOffer(offer *entity.CounterOffer) *rest.CounterOffer {
	if offer == nil {
		return nil
	}

	return &rest.CounterOffer{
		Outcome:        offer.Outcome.String(),
		Band:           offer.Band.String(),
		SettledPrice:   offer.SettledPrice,
		RequestedPrice: offer.RequestedPrice,
		ReferencePrice: offer.ReferencePrice,
		Discount:       offer.Discount,
	}
}

func newRESTNegotiation(state entity.SessionState) rest.Negotiation {
	return rest.Negotiation{
		ID:             state.ID,
		Unit:           newRESTUnitKey(state.Unit),
		ReferencePrice: state.Reference.Amount,
		Phase:          state.Phase.String(),
		CounterOffer:   newRESTCounterOffer(state.CounterOffer),
		GrandTotal:     state.GrandTotal,
		ValidUntil:     state.ValidUntil,
		RemainingUnits: state.RemainingUnits,
		TriedPrices:    state.TriedPrices(),
		LastRejection:  state.LastRejection,
		Steps:          state.NegotiationSteps,
	}
}

func newRESTCheckout(checkout negotiation.Checkout) rest.Checkout {
	lc := checkout.Context

	return rest.Checkout{
		Unit:            newRESTUnitKey(lc.Unit),
		Stay:            newRESTStay(lc.Stay),
		SettledPrice:    lc.SettledPrice,
		MandatoryExtras: newRESTExtras(lc.MandatoryExtras),
		TaxRate:         lc.TaxRate,
		Currency:        lc.Currency.String(),
		GrandTotal:      checkout.GrandTotal,
		ValidUntil:      checkout.ValidUntil,
		RemainingUnits:  checkout.Remaining,
	}
}

func newRESTBooking(booking *entity.Booking) *rest.Booking {
	if booking == nil {
		return nil
	}

	return &rest.Booking{
		ID:           booking.ID,
		SessionID:    booking.SessionID,
		Unit:         newRESTUnitKey(booking.Unit),
		Stay:         newRESTStay(booking.Stay),
		SettledPrice: booking.SettledPrice,
		GrandTotal:   booking.GrandTotal,
		Currency:     booking.Currency.String(),
		CommittedAt:  booking.CommittedAt,
		Nights:       booking.Stay.Nights(),
		Guests:       booking.Stay.Guests(),
	}
}

func newRESTCommitBookingResponse(result entity.CommitResult) rest.CommitBookingResponse {
	return rest.CommitBookingResponse{
		Committed: result.Committed,
		Drift:     result.Drift,
		Booking:   newRESTBooking(result.Booking),
	}
}
