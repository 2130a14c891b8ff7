package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
)

func TestParseHaggle(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		text    string
		want    haggleArgs
		wantErr bool
	}{
		{
			name: "Canonical currency",
			text: "/haggle hotel-42/deluxe 32168 14000",
			want: haggleArgs{
				unit:      value.NewUnitKey("hotel-42", "deluxe"),
				reference: decimal.RequireFromString("32168"),
				target:    decimal.RequireFromString("14000"),
			},
		},
		{
			name: "Foreign currency",
			text: "/haggle  hotel-42/deluxe 32168 300.77 usd",
			want: haggleArgs{
				unit:      value.NewUnitKey("hotel-42", "deluxe"),
				reference: decimal.RequireFromString("32168"),
				target:    decimal.RequireFromString("300.77"),
				currency:  "USD",
			},
		},
		{name: "Missing target", text: "/haggle hotel-42/deluxe 32168", wantErr: true},
		{name: "Too many args", text: "/haggle hotel-42/deluxe 1 2 USD extra", wantErr: true},
		{name: "Bad unit", text: "/haggle hotel-42 32168 14000", wantErr: true},
		{name: "Bad reference", text: "/haggle hotel-42/deluxe abc 14000", wantErr: true},
		{name: "Bad target", text: "/haggle hotel-42/deluxe 32168 1,4", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := parseHaggle(tc.text)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want.unit, got.unit)
			rq.True(tc.want.reference.Equal(got.reference))
			rq.True(tc.want.target.Equal(got.target))
			rq.Equal(tc.want.currency, got.currency)
		})
	}
}

func TestSessionFromCallback(t *testing.T) {
	rq := require.New(t)

	id, ok := sessionFromCallback(callbackBook, callbackData(callbackBook, "01J9Z"))
	rq.True(ok)
	rq.Equal("01J9Z", id)

	_, ok = sessionFromCallback(callbackBook, callbackData(callbackDrop, "01J9Z"))
	rq.False(ok)

	_, ok = sessionFromCallback(callbackDrop, callbackDrop)
	rq.False(ok)
}

func TestFailureText(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Domain error",
			err:  fmt.Errorf("submit target: %w", domain.NewError(errcodes.PriceTooHigh, "target must be below 32168")),
			want: "❌ <b>PriceTooHigh</b>\ntarget must be below 32168",
		},
		{
			name: "Plain error",
			err:  errors.New("network down"),
			want: "❌ network down",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, failureText(tc.err))
		})
	}
}
