package negotiation

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	// Offer validity is ValidityUnits x TimeUnit; the countdown ticks once per TimeUnit.
	ValidityUnits int
	TimeUnit      time.Duration
	// Simulated deliberation before the engine decides. Zero steps decides
	// synchronously inside Submit.
	ProgressSteps    int
	ProgressInterval time.Duration
	RoundingPlaces   int32
	// Sessions untouched for this long are closed and dropped.
	SessionIdleTTL time.Duration
	// Upper bound for one booking commit. The session stays locked while it
	// runs.
	CommitTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ValidityUnits:    30,                     //nolint:mnd
		TimeUnit:         time.Second,            //nolint:mnd
		ProgressSteps:    5,                      //nolint:mnd
		ProgressInterval: 400 * time.Millisecond, //nolint:mnd
		RoundingPlaces:   0,
		SessionIdleTTL:   30 * time.Minute, //nolint:mnd
		CommitTimeout:    5 * time.Second,  //nolint:mnd
	}
}

func (c Config) ValidityWindow() time.Duration {
	return time.Duration(c.ValidityUnits) * c.TimeUnit
}

func (c Config) Validate() error {
	var errs []error

	if c.ValidityUnits <= 0 {
		errs = append(errs, fmt.Errorf("validity units %d: want > 0", c.ValidityUnits))
	}

	if c.TimeUnit <= 0 {
		errs = append(errs, fmt.Errorf("time unit %s: want > 0", c.TimeUnit))
	}

	if c.ProgressSteps < 0 {
		errs = append(errs, fmt.Errorf("progress steps %d: want >= 0", c.ProgressSteps))
	}

	if c.ProgressSteps > 0 && c.ProgressInterval <= 0 {
		errs = append(errs, fmt.Errorf("progress interval %s: want > 0", c.ProgressInterval))
	}

	if c.RoundingPlaces < 0 {
		errs = append(errs, fmt.Errorf("rounding places %d: want >= 0", c.RoundingPlaces))
	}

	if c.SessionIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("session idle ttl %s: want > 0", c.SessionIdleTTL))
	}

	if c.CommitTimeout <= 0 {
		errs = append(errs, fmt.Errorf("commit timeout %s: want > 0", c.CommitTimeout))
	}

	return errors.Join(errs...)
}
