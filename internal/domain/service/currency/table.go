// Package currency converts user-entered amounts into the canonical currency
// the negotiation engine works in.
package currency

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"bargain/internal/domain"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
)

// Table holds exchange rates to the canonical currency: one unit of a listed
// currency equals rate units of the canonical one. It is read-only once built.
type Table struct {
	canonical value.Currency
	rates     map[value.Currency]decimal.Decimal
}

// NewTable validates rates. The canonical currency always converts at 1.
func NewTable(canonical value.Currency, rates map[value.Currency]decimal.Decimal) (*Table, error) {
	if canonical == "" {
		return nil, domain.NewError(errcodes.InvalidExchangeRate, "canonical currency is empty")
	}

	table := &Table{
		canonical: canonical,
		rates:     make(map[value.Currency]decimal.Decimal, len(rates)+1),
	}

	for code, rate := range rates {
		if !rate.IsPositive() {
			return nil, domain.Errorf(errcodes.InvalidExchangeRate, "rate for %s is %s, want positive", code, rate)
		}

		if code == canonical && !rate.Equal(decimal.NewFromInt(1)) {
			return nil, domain.Errorf(errcodes.InvalidExchangeRate, "canonical currency %s must have rate 1, got %s", code, rate)
		}

		table.rates[code] = rate
	}

	table.rates[canonical] = decimal.NewFromInt(1)

	return table, nil
}

func (t *Table) Canonical() value.Currency {
	return t.canonical
}

func (t *Table) Supports(code value.Currency) bool {
	_, ok := t.rates[code]
	return ok
}

// Currencies lists the supported codes in lexical order.
func (t *Table) Currencies() []value.Currency {
	codes := lo.Keys(t.rates)
	slices.Sort(codes)

	return codes
}

// Convert returns amount expressed in the canonical currency, unrounded.
func (t *Table) Convert(amount decimal.Decimal, from value.Currency) (decimal.Decimal, error) {
	if from == "" {
		from = t.canonical
	}

	rate, ok := t.rates[from]
	if !ok {
		return decimal.Zero, domain.Errorf(errcodes.UnsupportedCurrency, "no exchange rate for %s", from)
	}

	return amount.Mul(rate), nil
}

// ParseRates reads a CODE -> rate map as produced by env parsing of
// "USD:83.12,EUR:90.4".
func ParseRates(raw map[string]string) (map[value.Currency]decimal.Decimal, error) {
	rates := make(map[value.Currency]decimal.Decimal, len(raw))

	for code, s := range raw {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InvalidExchangeRate, fmt.Sprintf("parse rate for %s", code))
		}

		rates[value.NewCurrency(code)] = rate
	}

	return rates, nil
}

// Merge returns a new map with the entries of override taking precedence.
func Merge(base, override map[value.Currency]decimal.Decimal) map[value.Currency]decimal.Decimal {
	return lo.Assign(base, override)
}
