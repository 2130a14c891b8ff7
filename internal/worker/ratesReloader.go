package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/negotiation"
	"bargain/pkg/logx"
)

const defaultReloadInterval = 10 * time.Minute

type RatesTarget interface {
	SetRates(rates negotiation.Converter)
}

// RatesReloader periodically rebuilds the exchange-rate table and hands it to
// the negotiation service. A failed reload keeps the previous table.
type RatesReloader struct {
	load     func() (*currency.Table, error)
	target   RatesTarget
	interval time.Duration
	clock    clock.Clock

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewRatesReloader(load func() (*currency.Table, error), target RatesTarget) *RatesReloader {
	return &RatesReloader{
		load:     load,
		target:   target,
		interval: defaultReloadInterval,
		clock:    clock.New(),
	}
}

func (w *RatesReloader) WithInterval(interval time.Duration) *RatesReloader {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *RatesReloader) WithClock(c clock.Clock) *RatesReloader {
	w.clock = c
	return w
}

func (w *RatesReloader) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("rates reloader is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	// Registered before Start returns so no tick is missed.
	ticker := w.clock.Ticker(w.interval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.run(runCtx, ticker); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("rates reloader stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *RatesReloader) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *RatesReloader) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Run reloads on every interval until ctx is done.
func (w *RatesReloader) Run(ctx context.Context) error {
	return w.run(ctx, w.clock.Ticker(w.interval))
}

func (w *RatesReloader) run(ctx context.Context, ticker *clock.Ticker) error {
	defer ticker.Stop()

	logger(ctx).Info("rates reloader started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("rates reloader stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Reload(ctx); err != nil {
				logger(ctx).Error("exchange rates reload failed", logx.Error(err))
			}
		}
	}
}

func (w *RatesReloader) Reload(ctx context.Context) error {
	table, err := w.load()
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	w.target.SetRates(table)

	logger(ctx).Info("exchange rates reloaded", slog.Any("currencies", table.Currencies()))

	return nil
}
