package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         App
	HTTP        HTTP
	Probe       Probe
	Metrics     Metrics
	Postgres    Postgres
	Bot         Bot
	Negotiation Negotiation
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"bargain"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

// Bot is the operator chat. Settled offers are posted to ChatID; AdminID may
// haggle through bot commands. Each part is off until its values are set.
type Bot struct {
	Token     string `env:"BOT_TOKEN" json:"-"`
	ChatID    int64  `env:"BOT_CHAT_ID"`
	AdminID   int64  `env:"BOT_ADMIN_ID"`
	QueueSize int    `env:"BOT_QUEUE_SIZE" envDefault:"100"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func (b Bot) CommandsEnabled() bool {
	return b.Token != "" && b.AdminID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	if err := c.HTTP.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Negotiation.Engine().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}

	if err := c.Negotiation.Session().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}

	if c.Negotiation.CanonicalCurrency == "" {
		errs = append(errs, errors.New("canonical currency is empty"))
	}

	return errors.Join(errs...)
}
