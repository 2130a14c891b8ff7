package negotiation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/integrity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
	"bargain/pkg/tests"
)

type serviceFixture struct {
	service   *negotiation.Service
	committer *committer

	mu      sync.Mutex
	settled []entity.SettledOffer
	commits []entity.CommitResult
}

func newServiceFixture(t *testing.T, cfg negotiation.Config, draws ...float64) *serviceFixture {
	t.Helper()

	f := &serviceFixture{committer: &committer{}}

	f.service = negotiation.NewService(
		cfg,
		counteroffer.NewEngine(counteroffer.DefaultConfig(), tests.NewDraws(draws...)),
		rates(t),
		integrity.NewGuard(integrity.DefaultEpsilon, cfg.RoundingPlaces),
		f.committer,
	).
		WithClock(clock.NewMock()).
		WithSettledHook(func(_ context.Context, offer entity.SettledOffer) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.settled = append(f.settled, offer)
		}).
		WithCommitHook(func(_ context.Context, _ string, result entity.CommitResult, _ error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.commits = append(f.commits, result)
		})

	t.Cleanup(func() { f.service.Shutdown(context.Background()) })

	return f
}

func syncConfig() negotiation.Config {
	cfg := negotiation.DefaultConfig()
	cfg.ProgressSteps = 0

	return cfg
}

func openRequest() negotiation.OpenRequest {
	return negotiation.OpenRequest{
		Unit:      unit,
		Reference: d("32168"),
		TaxRate:   d("0.18"),
		Extras:    []entity.Extra{{Name: "resort fee", Amount: d("750")}},
	}
}

func TestServiceNegotiateAndBook(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.95)

	state, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)
	rq.Equal(value.PhaseInput, state.Phase)
	rq.Equal(1, f.service.Len())

	_, err = ulid.ParseStrict(state.ID)
	rq.NoError(err)

	var once entity.SettledOffer
	rq.NoError(f.service.OnSettled(state.ID, func(offer entity.SettledOffer) { once = offer }))

	state, err = f.service.SubmitTarget(ctx, state.ID, unit, d("14000"), "INR")
	rq.NoError(err)
	rq.Equal(value.PhaseSettled, state.Phase)

	// (22518 + 750) * 1.18 = 27456.24
	rq.True(d("27456").Equal(*state.GrandTotal), state.GrandTotal.String())
	rq.True(d("22518").Equal(once.SettledPrice))

	f.mu.Lock()
	rq.Len(f.settled, 1)
	rq.Equal(state.ID, f.settled[0].SessionID)
	f.mu.Unlock()

	checkout, err := f.service.Checkout(ctx, state.ID)
	rq.NoError(err)
	rq.True(d("27456").Equal(checkout.GrandTotal))
	rq.Len(checkout.Context.MandatoryExtras, 1)

	result, err := f.service.CommitBooking(ctx, state.ID, d("27500"))
	rq.True(domain.HasCode(err, errcodes.PriceDrift), "%v", err)
	rq.True(d("44").Equal(result.Drift))
	rq.Equal(1, f.service.Len())

	result, err = f.service.CommitBooking(ctx, state.ID, checkout.GrandTotal)
	rq.NoError(err)
	rq.True(result.Committed)
	rq.Equal(1, f.committer.count())
	rq.Zero(f.service.Len())

	_, err = f.service.State(ctx, state.ID)
	rq.True(domain.HasCode(err, errcodes.SessionNotFound), "%v", err)

	f.mu.Lock()
	rq.Len(f.commits, 2)
	rq.False(f.commits[0].Committed)
	rq.True(f.commits[1].Committed)
	f.mu.Unlock()
}

func TestServiceUnknownSession(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "Submit", call: func() error {
			_, err := f.service.SubmitTarget(ctx, "missing", unit, d("1"), "INR")
			return err
		}},
		{name: "OnSettled", call: func() error { return f.service.OnSettled("missing", func(entity.SettledOffer) {}) }},
		{name: "OnProgress", call: func() error { return f.service.OnProgress("missing", func(negotiation.Progress) {}) }},
		{name: "OnCountdown", call: func() error { return f.service.OnCountdown("missing", func(negotiation.Countdown) {}) }},
		{name: "Commit", call: func() error {
			_, err := f.service.CommitBooking(ctx, "missing", d("1"))
			return err
		}},
		{name: "Retry", call: func() error {
			_, err := f.service.Retry(ctx, "missing")
			return err
		}},
		{name: "Checkout", call: func() error {
			_, err := f.service.Checkout(ctx, "missing")
			return err
		}},
		{name: "Abandon", call: func() error { return f.service.Abandon(ctx, "missing") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.True(domain.HasCode(tc.call(), errcodes.SessionNotFound))
		})
	}
}

func TestServiceOpenValidation(t *testing.T) {
	rq := require.New(t)

	f := newServiceFixture(t, syncConfig(), 0.1)

	req := openRequest()
	req.Reference = decimal.Zero

	_, err := f.service.Open(context.Background(), req)
	rq.True(domain.HasCode(err, errcodes.InvalidInput), "%v", err)
	rq.Zero(f.service.Len())
}

func TestServiceAbandon(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	state, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)

	rq.NoError(f.service.Abandon(ctx, state.ID))
	rq.Zero(f.service.Len())

	_, err = f.service.State(ctx, state.ID)
	rq.True(domain.HasCode(err, errcodes.SessionNotFound))
}

func TestServiceAbandonDuringReads(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	for range 50 {
		state, err := f.service.Open(ctx, openRequest())
		rq.NoError(err)

		var (
			wg    sync.WaitGroup
			start = make(chan struct{})
		)

		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for range 20 {
					_, _ = f.service.State(ctx, state.ID)
				}
			}()
		}

		close(start)
		rq.NoError(f.service.Abandon(ctx, state.ID))
		wg.Wait()

		rq.Zero(f.service.Len())

		_, err = f.service.State(ctx, state.ID)
		rq.True(domain.HasCode(err, errcodes.SessionNotFound))
	}
}

func TestServiceRetryKeepsTriedPrices(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	state, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)

	_, err = f.service.SubmitTarget(ctx, state.ID, unit, d("99999"), "INR")
	rq.True(domain.HasCode(err, errcodes.PriceTooHigh))

	state, err = f.service.Retry(ctx, state.ID)
	rq.NoError(err)
	rq.Equal(value.PhaseInput, state.Phase)

	_, err = f.service.Retry(ctx, state.ID)
	rq.True(domain.HasCode(err, errcodes.InvalidPhase))
}

func TestServiceIdleEviction(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cfg := syncConfig()
	cfg.SessionIdleTTL = 50 * time.Millisecond

	f := newServiceFixture(t, cfg, 0.1)

	state, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)

	rq.Eventually(func() bool { return f.service.Len() == 0 }, waitFor, tick)

	_, err = f.service.SubmitTarget(ctx, state.ID, unit, d("25000"), "INR")
	rq.True(domain.HasCode(err, errcodes.SessionNotFound))
}

func TestServiceSetRates(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	before, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)

	table, err := currency.NewTable("INR", map[value.Currency]decimal.Decimal{"EUR": d("90.40")})
	rq.NoError(err)
	f.service.SetRates(table)

	after, err := f.service.Open(ctx, openRequest())
	rq.NoError(err)

	_, err = f.service.SubmitTarget(ctx, before.ID, unit, d("300"), "EUR")
	rq.True(domain.HasCode(err, errcodes.UnsupportedCurrency))

	// 300 EUR = 27120 INR
	state, err := f.service.SubmitTarget(ctx, after.ID, unit, d("300"), "EUR")
	rq.NoError(err)
	rq.True(d("27120").Equal(state.Attempts[0].TargetPrice))
}

func TestServiceShutdown(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newServiceFixture(t, syncConfig(), 0.1)

	for range 3 {
		_, err := f.service.Open(ctx, openRequest())
		rq.NoError(err)
	}

	rq.Equal(3, f.service.Len())

	f.service.Shutdown(ctx)
	rq.Zero(f.service.Len())
}
