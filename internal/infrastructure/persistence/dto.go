package persistence

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// bookingSchema maps a row of the bookings table.
type bookingSchema struct {
	ID           string          `db:"id"`
	SessionID    string          `db:"session_id"`
	ItemID       string          `db:"item_id"`
	RateName     string          `db:"rate_name"`
	Stay         []byte          `db:"stay"`
	SettledPrice decimal.Decimal `db:"settled_price"`
	GrandTotal   decimal.Decimal `db:"grand_total"`
	Currency     string          `db:"currency"`
	CommittedAt  time.Time       `db:"committed_at"`
}

func fromBooking(b entity.Booking) (bookingSchema, error) {
	stay, err := json.Marshal(b.Stay)
	if err != nil {
		return bookingSchema{}, fmt.Errorf("marshal stay: %w", err)
	}

	return bookingSchema{
		ID:           b.ID,
		SessionID:    b.SessionID,
		ItemID:       b.Unit.ItemID,
		RateName:     b.Unit.RateName,
		Stay:         stay,
		SettledPrice: b.SettledPrice,
		GrandTotal:   b.GrandTotal,
		Currency:     b.Currency.String(),
		CommittedAt:  b.CommittedAt,
	}, nil
}

func (s bookingSchema) toDomain() (entity.Booking, error) {
	var stay entity.StayContext
	if len(s.Stay) > 0 {
		if err := json.Unmarshal(s.Stay, &stay); err != nil {
			return entity.Booking{}, fmt.Errorf("unmarshal stay: %w", err)
		}
	}

	return entity.Booking{
		ID:           s.ID,
		SessionID:    s.SessionID,
		Unit:         value.NewUnitKey(s.ItemID, s.RateName),
		Stay:         stay,
		SettledPrice: s.SettledPrice,
		GrandTotal:   s.GrandTotal,
		Currency:     value.Currency(s.Currency),
		CommittedAt:  s.CommittedAt,
	}, nil
}
