package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/value"
)

const (
	callbackBook = "book:"
	callbackDrop = "drop:"
)

var errUsage = errors.New("usage")

type haggleArgs struct {
	unit      value.UnitKey
	reference decimal.Decimal
	target    decimal.Decimal
	currency  value.Currency
}

// parseHaggle reads "/haggle item/rate reference target [currency]".
func parseHaggle(text string) (haggleArgs, error) {
	parts := strings.Fields(text)
	if len(parts) < 4 || len(parts) > 5 {
		return haggleArgs{}, errUsage
	}

	unit, err := value.ParseUnitKey(parts[1])
	if err != nil {
		return haggleArgs{}, fmt.Errorf("value.ParseUnitKey: %w", err)
	}

	reference, err := decimal.NewFromString(parts[2])
	if err != nil {
		return haggleArgs{}, fmt.Errorf("reference %q: %w", parts[2], err)
	}

	target, err := decimal.NewFromString(parts[3])
	if err != nil {
		return haggleArgs{}, fmt.Errorf("target %q: %w", parts[3], err)
	}

	args := haggleArgs{
		unit:      unit,
		reference: reference,
		target:    target,
	}

	if len(parts) == 5 {
		args.currency = value.NewCurrency(parts[4])
	}

	return args, nil
}

func callbackData(prefix, sessionID string) string {
	return prefix + sessionID
}

func sessionFromCallback(prefix, data string) (string, bool) {
	id, ok := strings.CutPrefix(data, prefix)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
