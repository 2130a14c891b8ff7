package contextx

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoValue = errors.New("no value in context")

// valueFrom reads a typed value stored under key; name labels the error.
func valueFrom[T any](ctx context.Context, key any, name string) (T, error) {
	value, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return value, nil
}
