package negotiation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/integrity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/pkg/tests"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

var (
	unit      = value.NewUnitKey("hotel-42", "deluxe-king") //nolint:gochecknoglobals
	otherUnit = value.NewUnitKey("hotel-42", "standard")    //nolint:gochecknoglobals
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type committer struct {
	mu       sync.Mutex
	bookings []entity.Booking
	err      error
	// hang blocks CommitBooking until its context is done.
	hang bool
}

func (c *committer) CommitBooking(ctx context.Context, booking entity.Booking) error {
	c.mu.Lock()
	hang := c.hang
	c.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.bookings = append(c.bookings, booking)

	return nil
}

func (c *committer) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.err = err
}

func (c *committer) stall(hang bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hang = hang
}

func (c *committer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.bookings)
}

// stalledClock moves Now forward but never fires its tickers, so a test can
// reach a deadline before any countdown tick runs.
type stalledClock struct {
	*clock.Mock
	timers *clock.Mock
}

func newStalledClock() stalledClock {
	return stalledClock{Mock: clock.NewMock(), timers: clock.NewMock()}
}

func (c stalledClock) Ticker(d time.Duration) *clock.Ticker {
	return c.timers.Ticker(d)
}

type fixture struct {
	session   *negotiation.Session
	committer *committer
	guard     *integrity.Guard
}

type options struct {
	cfg       negotiation.Config
	clock     clock.Clock
	draws     []float64
	reference string
	extras    []entity.Extra
	taxRate   string
}

func defaultOptions() options {
	cfg := negotiation.DefaultConfig()
	cfg.ProgressSteps = 0

	return options{
		cfg:       cfg,
		clock:     clock.NewMock(),
		draws:     []float64{0.1},
		reference: "32168",
		taxRate:   "0",
	}
}

func rates(t *testing.T) *currency.Table {
	t.Helper()

	table, err := currency.NewTable("INR", map[value.Currency]decimal.Decimal{
		"USD": d("83.12"),
	})
	require.NoError(t, err)

	return table
}

func newFixture(t *testing.T, opts options) fixture {
	t.Helper()

	c := &committer{}
	guard := integrity.NewGuard(integrity.DefaultEpsilon, opts.cfg.RoundingPlaces)

	session, err := negotiation.NewSession(context.Background(), "", negotiation.OpenRequest{
		Unit:      unit,
		Reference: d(opts.reference),
		Stay: entity.StayContext{
			CheckIn:  time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC),
			Adults:   2,
			Rooms:    1,
		},
		Extras:  opts.extras,
		TaxRate: d(opts.taxRate),
	}, opts.cfg, negotiation.Deps{
		Engine:    counteroffer.NewEngine(counteroffer.DefaultConfig(), tests.NewDraws(opts.draws...)),
		Rates:     rates(t),
		Guard:     guard,
		Committer: c,
		Clock:     opts.clock,
	})
	require.NoError(t, err)

	t.Cleanup(session.Close)

	return fixture{session: session, committer: c, guard: guard}
}

var errStorage = errors.New("storage unavailable") //nolint:gochecknoglobals
