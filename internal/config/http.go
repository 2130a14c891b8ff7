package config

import (
	"errors"
	"time"
)

type HTTP struct {
	ListenAddress     string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	MaxLogFieldLength int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
	// Target submissions allowed per client IP.
	TargetRateLimit float64 `env:"HTTP_TARGET_RATE_LIMIT" envDefault:"2"`
	TargetRateBurst int     `env:"HTTP_TARGET_RATE_BURST" envDefault:"5"`
}

func (h HTTP) Validate() error {
	if h.TargetRateLimit <= 0 || h.TargetRateBurst <= 0 {
		return errors.New("http: target rate limit and burst must be positive")
	}

	return nil
}
