package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/internal/worker"
)

type target struct {
	mu    sync.Mutex
	rates []negotiation.Converter
}

func (t *target) SetRates(rates negotiation.Converter) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rates = append(t.rates, rates)
}

func (t *target) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.rates)
}

func (t *target) last() negotiation.Converter {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.rates[len(t.rates)-1]
}

func TestRatesReloader(t *testing.T) {
	rq := require.New(t)

	var (
		mu    sync.Mutex
		calls int
	)

	load := func() (*currency.Table, error) {
		mu.Lock()
		defer mu.Unlock()

		calls++
		if calls == 2 {
			return nil, errors.New("rates file is broken")
		}

		return currency.NewTable("INR", map[value.Currency]decimal.Decimal{
			"USD": decimal.NewFromInt(int64(80 + calls)),
		})
	}

	mock := clock.NewMock()
	tgt := &target{}

	reloader := worker.NewRatesReloader(load, tgt).
		WithInterval(time.Minute).
		WithClock(mock)

	rq.NoError(reloader.Start(context.Background()))
	rq.Error(reloader.Start(context.Background()))
	rq.True(reloader.IsRunning())

	mock.Add(time.Minute)
	rq.Eventually(func() bool { return tgt.count() == 1 }, time.Second, 5*time.Millisecond)

	// The failed reload leaves the previous table in place.
	mock.Add(time.Minute)
	rq.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 5*time.Millisecond)
	rq.Equal(1, tgt.count())

	mock.Add(time.Minute)
	rq.Eventually(func() bool { return tgt.count() == 2 }, time.Second, 5*time.Millisecond)

	got, err := tgt.last().Convert(decimal.NewFromInt(1), "USD")
	rq.NoError(err)
	rq.True(decimal.NewFromInt(83).Equal(got))

	reloader.Stop()
	rq.False(reloader.IsRunning())
}
