package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"bargain/internal/config"
	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/integrity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/internal/infrastructure/persistence"
	"bargain/pkg/contextx"
	"bargain/pkg/logx"
)

// go run ./cmd/haggle --reference 32168 --target 14000
// go run ./cmd/haggle --reference 32168 --target 300 --currency USD --book

type options struct {
	unit      string
	reference string
	target    string
	currency  string
	taxRate   string
	seed      int64
	book      bool
	logLevel  string
}

func main() {
	var opts options

	pflag.StringVar(&opts.unit, "unit", "demo-item/standard", "unit key as item/rate")
	pflag.StringVar(&opts.reference, "reference", "", "reference price in the canonical currency")
	pflag.StringVar(&opts.target, "target", "", "target price")
	pflag.StringVar(&opts.currency, "currency", "", "currency of the target, canonical when empty")
	pflag.StringVar(&opts.taxRate, "tax", "0", "tax rate applied at checkout")
	pflag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed for the engine")
	pflag.BoolVar(&opts.book, "book", false, "commit a booking at the checkout total")
	pflag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	pflag.Parse()

	log := logx.NewLogger(os.Stderr, logx.ParseLevel(opts.logLevel))
	ctx := contextx.WithLogger(context.Background(), log)

	if err := run(ctx, opts); err != nil {
		log.Error("haggle failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.reference == "" || opts.target == "" {
		pflag.Usage()
		return errors.New("--reference and --target are required")
	}

	unit, err := value.ParseUnitKey(opts.unit)
	if err != nil {
		return fmt.Errorf("value.ParseUnitKey: %w", err)
	}

	reference, err := decimal.NewFromString(opts.reference)
	if err != nil {
		return fmt.Errorf("reference: %w", err)
	}

	target, err := decimal.NewFromString(opts.target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	taxRate, err := decimal.NewFromString(opts.taxRate)
	if err != nil {
		return fmt.Errorf("tax: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	rates, err := cfg.Negotiation.Rates()
	if err != nil {
		return fmt.Errorf("exchange rates: %w", err)
	}

	sessionCfg := cfg.Negotiation.Session()
	sessionCfg.ProgressSteps = 0

	bookings := persistence.NewMemoryBookingStore()

	svc := negotiation.NewService(
		sessionCfg,
		counteroffer.NewEngine(cfg.Negotiation.Engine(), counteroffer.NewLockedSource(opts.seed)),
		rates,
		integrity.NewGuard(cfg.Negotiation.DriftEpsilon, cfg.Negotiation.RoundingPlaces),
		bookings,
	)
	defer svc.Shutdown(ctx)

	state, err := svc.Open(ctx, negotiation.OpenRequest{
		Unit:      unit,
		Reference: reference,
		TaxRate:   taxRate,
	})
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	state, err = svc.SubmitTarget(ctx, state.ID, unit, target, value.NewCurrency(opts.currency))
	if err != nil {
		fmt.Printf("rejected: %s (%s)\n", state.LastRejection, err)
		return nil
	}

	offer := state.CounterOffer
	fmt.Printf("%s (%s ask): %s %s, reference %s\n",
		offer.Outcome, offer.Band, offer.SettledPrice, rates.Canonical(), offer.ReferencePrice)

	checkout, err := svc.Checkout(ctx, state.ID)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	fmt.Printf("grand total %s, valid until %s\n",
		checkout.GrandTotal.StringFixed(2), checkout.ValidUntil.Format(time.TimeOnly))

	if !opts.book {
		return nil
	}

	result, err := svc.CommitBooking(ctx, state.ID, checkout.GrandTotal)
	if err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}

	fmt.Printf("booked %s\n", result.Booking.ID)

	return nil
}
