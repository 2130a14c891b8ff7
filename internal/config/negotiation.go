package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/service/counteroffer"
	"bargain/internal/domain/service/currency"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
)

type Negotiation struct {
	ModestThreshold             decimal.Decimal `env:"NEGOTIATION_MODEST_THRESHOLD" envDefault:"0.30"`
	AggressiveThreshold         decimal.Decimal `env:"NEGOTIATION_AGGRESSIVE_THRESHOLD" envDefault:"0.50"`
	AcceptProbability           float64         `env:"NEGOTIATION_ACCEPT_PROBABILITY" envDefault:"0.8"`
	ModestCounterMultiplier     decimal.Decimal `env:"NEGOTIATION_MODEST_COUNTER_MULTIPLIER" envDefault:"1.05"`
	AggressiveCounterMultiplier decimal.Decimal `env:"NEGOTIATION_AGGRESSIVE_COUNTER_MULTIPLIER" envDefault:"1.10"`
	CeilingMultiplier           decimal.Decimal `env:"NEGOTIATION_CEILING_MULTIPLIER" envDefault:"0.80"`
	FloorMultiplier             decimal.Decimal `env:"NEGOTIATION_FLOOR_MULTIPLIER" envDefault:"0.70"`
	RoundingPlaces              int32           `env:"NEGOTIATION_ROUNDING_PLACES" envDefault:"0"`

	ValidityUnits    int             `env:"NEGOTIATION_VALIDITY_UNITS" envDefault:"30"`
	TimeUnit         time.Duration   `env:"NEGOTIATION_TIME_UNIT" envDefault:"1s"`
	ProgressSteps    int             `env:"NEGOTIATION_PROGRESS_STEPS" envDefault:"5"`
	ProgressInterval time.Duration   `env:"NEGOTIATION_PROGRESS_INTERVAL" envDefault:"400ms"`
	SessionIdleTTL   time.Duration   `env:"NEGOTIATION_SESSION_IDLE_TTL" envDefault:"30m"`
	CommitTimeout    time.Duration   `env:"NEGOTIATION_COMMIT_TIMEOUT" envDefault:"5s"`
	DriftEpsilon     decimal.Decimal `env:"NEGOTIATION_DRIFT_EPSILON" envDefault:"0.01"`

	CanonicalCurrency string `env:"NEGOTIATION_CANONICAL_CURRENCY" envDefault:"INR"`
	// "USD:83.12,EUR:90.40"; entries override the rates file.
	ExchangeRates       map[string]string `env:"NEGOTIATION_EXCHANGE_RATES"`
	ExchangeRatesFile   string            `env:"NEGOTIATION_EXCHANGE_RATES_FILE"`
	ExchangeRatesURL    string            `env:"NEGOTIATION_EXCHANGE_RATES_URL"`
	RatesReloadInterval time.Duration     `env:"NEGOTIATION_EXCHANGE_RATES_RELOAD_INTERVAL" envDefault:"0"`
}

func (n Negotiation) Engine() counteroffer.Config {
	return counteroffer.Config{
		ModestThreshold:             n.ModestThreshold,
		AggressiveThreshold:         n.AggressiveThreshold,
		AcceptProbability:           n.AcceptProbability,
		ModestCounterMultiplier:     n.ModestCounterMultiplier,
		AggressiveCounterMultiplier: n.AggressiveCounterMultiplier,
		CeilingMultiplier:           n.CeilingMultiplier,
		FloorMultiplier:             n.FloorMultiplier,
		RoundingPlaces:              n.RoundingPlaces,
	}
}

func (n Negotiation) Session() negotiation.Config {
	return negotiation.Config{
		ValidityUnits:    n.ValidityUnits,
		TimeUnit:         n.TimeUnit,
		ProgressSteps:    n.ProgressSteps,
		ProgressInterval: n.ProgressInterval,
		RoundingPlaces:   n.RoundingPlaces,
		SessionIdleTTL:   n.SessionIdleTTL,
		CommitTimeout:    n.CommitTimeout,
	}
}

// Rates builds the exchange-rate table from the rates file and the inline
// map.
func (n Negotiation) Rates() (*currency.Table, error) {
	return n.LoadRates(context.Background(), nil)
}

// LoadRates is Rates with the rates URL taking the place of the file when
// set.
func (n Negotiation) LoadRates(ctx context.Context, client *http.Client) (*currency.Table, error) {
	rates := map[value.Currency]decimal.Decimal{}

	switch {
	case n.ExchangeRatesURL != "":
		fromURL, err := currency.LoadURL(ctx, client, n.ExchangeRatesURL)
		if err != nil {
			return nil, fmt.Errorf("currency.LoadURL: %w", err)
		}

		rates = fromURL
	case n.ExchangeRatesFile != "":
		fromFile, err := currency.LoadFile(n.ExchangeRatesFile)
		if err != nil {
			return nil, fmt.Errorf("currency.LoadFile: %w", err)
		}

		rates = fromFile
	}

	inline, err := currency.ParseRates(n.ExchangeRates)
	if err != nil {
		return nil, fmt.Errorf("currency.ParseRates: %w", err)
	}

	table, err := currency.NewTable(value.NewCurrency(n.CanonicalCurrency), currency.Merge(rates, inline))
	if err != nil {
		return nil, fmt.Errorf("currency.NewTable: %w", err)
	}

	return table, nil
}
