package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"bargain/internal/config"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/integrity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/infrastructure/metrics"
	"bargain/internal/infrastructure/notifier"
	"bargain/internal/infrastructure/persistence"
	"bargain/internal/server"
	"bargain/internal/transport/bot"
	"bargain/internal/transport/bot/handler"
	"bargain/internal/worker"
	"bargain/pkg/application/connectors"
	"bargain/pkg/application/modules"
	"bargain/pkg/contextx"
	"bargain/pkg/httpx"
	"bargain/pkg/logx"
	"bargain/pkg/middlewarex"
	"bargain/pkg/probe"
)

const ratesFetchTimeout = 10 * time.Second

func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	// 1. Booking storage
	bookings, readiness, closeStore, err := bookingStore(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Negotiation
	ratesClient := &http.Client{
		Timeout: ratesFetchTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(cfg.HTTP.MaxLogFieldLength),
			httpx.WithUpstream("exchange-rates"),
		),
	}
	loadRates := func() (*currency.Table, error) {
		return cfg.Negotiation.LoadRates(ctx, ratesClient)
	}

	rates, err := loadRates()
	if err != nil {
		return fmt.Errorf("exchange rates: %w", err)
	}

	log.Info("exchange rates loaded",
		slog.String("canonical", rates.Canonical().String()),
		slog.Int("currencies", len(rates.Currencies())),
	)

	meter := metrics.NewNegotiation(prometheus.DefaultRegisterer)

	svc := negotiation.NewService(
		cfg.Negotiation.Session(),
		counteroffer.NewEngine(cfg.Negotiation.Engine(), counteroffer.NewLockedSource(time.Now().UnixNano())),
		rates,
		integrity.NewGuard(cfg.Negotiation.DriftEpsilon, cfg.Negotiation.RoundingPlaces),
		bookings,
	).
		WithSettledHook(meter.Settled).
		WithExpiredHook(meter.Expired).
		WithCommitHook(meter.Commit)
	defer svc.Shutdown(context.WithoutCancel(ctx))

	g, ctx := errgroup.WithContext(ctx)

	// 3. Operator notifications
	if cfg.Bot.Enabled() {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}

		offers := make(chan entity.SettledOffer, cfg.Bot.QueueSize)
		svc.WithSettledHook(notifier.Enqueue(offers))

		g.Go(func() error {
			log.Info("notifier bot started listening")

			if err := alertBot.Run(ctx, offers); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("notifier bot: %w", err)
			}

			return nil
		})
	}

	// 4. Exchange rate reload
	reloader := worker.NewRatesReloader(loadRates, svc).
		WithInterval(cfg.Negotiation.RatesReloadInterval)

	if cfg.Negotiation.RatesReloadInterval > 0 {
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("rates reloader: %w", err)
		}
		defer reloader.Stop()

		log.Info("rates reloader started", slog.Duration("interval", cfg.Negotiation.RatesReloadInterval))
	}

	// 5. Operator commands
	if cfg.Bot.CommandsEnabled() {
		commands, err := bot.New(ctx, cfg.Bot.Token, cfg.Bot.AdminID, handler.New(svc).WithReloader(reloader))
		if err != nil {
			return fmt.Errorf("operator bot: %w", err)
		}

		g.Go(func() error {
			log.Info("operator bot started")
			return commands.Run(ctx)
		})
	}

	// 6. HTTP
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.WithLogger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.MaxLogFieldLength),
		middlewarex.ResponseLogging(masker, cfg.HTTP.MaxLogFieldLength),
	)

	server.NewServer(
		server.NewNegotiationServer(svc).
			WithTargetRateLimit(rate.Limit(cfg.HTTP.TargetRateLimit), cfg.HTTP.TargetRateBurst),
		server.NewBookingServer(bookings),
	).RegisterRoutes(router)

	modules.HTTPServer{
		Name:            "negotiation-api",
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        readiness,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application: %w", err)
	}

	log.Info("application stopping...")

	return nil
}

// bookingStorage commits bookings for the negotiation service and serves them
// back over the bookings API.
type bookingStorage interface {
	negotiation.BookingCommitter
	GetByID(ctx context.Context, id string) (entity.Booking, error)
	List(ctx context.Context, limit, offset int) ([]entity.Booking, error)
}

// bookingStore returns the Postgres repository when a DSN is configured and
// the in-memory store otherwise, together with its readiness checks.
func bookingStore(
	ctx context.Context,
	cfg config.Postgres,
) (bookingStorage, map[string]probe.Check, func(), error) {
	if !cfg.Enabled() {
		logger(ctx).Warn("PG_DSN is not set, bookings are kept in memory")
		return persistence.NewMemoryBookingStore(), nil, func() {}, nil
	}

	pg := &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
	db, err := pg.Connect(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		pg.Close(ctx)
		return nil, nil, nil, fmt.Errorf("db ping: %w", err)
	}

	logger(ctx).Info("database connection OK")

	checks := map[string]probe.Check{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}

	return persistence.NewBookingRepository(db), checks, func() { pg.Close(context.WithoutCancel(ctx)) }, nil
}
