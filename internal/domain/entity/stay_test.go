package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bargain/internal/domain/entity"
)

func TestStayNights(t *testing.T) {
	rq := require.New(t)

	checkIn := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{name: "Three nights", checkOut: checkIn.AddDate(0, 0, 3), want: 3},
		{name: "One way", checkOut: time.Time{}, want: 0},
		{name: "Same day", checkOut: checkIn, want: 0},
		{name: "Before check-in", checkOut: checkIn.AddDate(0, 0, -1), want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			stay := entity.StayContext{CheckIn: checkIn, CheckOut: tc.checkOut}
			rq.Equal(tc.want, stay.Nights())
		})
	}

	rq.Equal(3, entity.StayContext{Adults: 2, Children: 1}.Guests())
}
