package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/config"
	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(":8080", cfg.HTTP.ListenAddress)
	rq.False(cfg.Postgres.Enabled())
	rq.False(cfg.Bot.Enabled())

	engine := cfg.Negotiation.Engine()
	want := counteroffer.DefaultConfig()
	rq.True(want.ModestThreshold.Equal(engine.ModestThreshold))
	rq.True(want.AggressiveThreshold.Equal(engine.AggressiveThreshold))
	rq.True(want.FloorMultiplier.Equal(engine.FloorMultiplier))
	rq.InDelta(want.AcceptProbability, engine.AcceptProbability, 0)

	rq.Equal(negotiation.DefaultConfig(), cfg.Negotiation.Session())
	rq.True(decimal.RequireFromString("0.01").Equal(cfg.Negotiation.DriftEpsilon))

	table, err := cfg.Negotiation.Rates()
	rq.NoError(err)
	rq.Equal("INR", table.Canonical().String())
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "rates.yaml")
	rq.NoError(os.WriteFile(path, []byte("rates:\n  USD: \"83.12\"\n  GBP: \"105\"\n"), 0o600))

	t.Setenv("PG_DSN", "postgres://bargain@localhost:5432/bargain")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BOT_CHAT_ID", "42")
	t.Setenv("NEGOTIATION_VALIDITY_UNITS", "60")
	t.Setenv("NEGOTIATION_PROGRESS_STEPS", "0")
	t.Setenv("NEGOTIATION_FLOOR_MULTIPLIER", "0.65")
	t.Setenv("NEGOTIATION_EXCHANGE_RATES", "USD:84,EUR:90.40")
	t.Setenv("NEGOTIATION_EXCHANGE_RATES_FILE", path)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.True(cfg.Postgres.Enabled())
	rq.True(cfg.Bot.Enabled())
	rq.Equal(60*time.Second, cfg.Negotiation.Session().ValidityWindow())
	rq.True(decimal.RequireFromString("0.65").Equal(cfg.Negotiation.Engine().FloorMultiplier))

	table, err := cfg.Negotiation.Rates()
	rq.NoError(err)

	testCases := []struct {
		name     string
		currency string
		want     string
	}{
		{name: "Inline overrides file", currency: "USD", want: "8400"},
		{name: "File only", currency: "GBP", want: "10500"},
		{name: "Inline only", currency: "EUR", want: "9040"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := table.Convert(decimal.NewFromInt(100), value.Currency(tc.currency))
			rq.NoError(err)
			rq.True(decimal.RequireFromString(tc.want).Equal(got), got.String())
		})
	}
}

func TestLoadRejectsInvalidEngine(t *testing.T) {
	rq := require.New(t)

	t.Setenv("NEGOTIATION_AGGRESSIVE_THRESHOLD", "0.2")

	_, err := config.Load()
	rq.ErrorContains(err, "aggressive threshold")
}
