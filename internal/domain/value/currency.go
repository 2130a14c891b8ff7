package value

import "strings"

// Currency is an ISO 4217 code, always upper case.
type Currency string

func NewCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

func (c Currency) String() string {
	return string(c)
}
