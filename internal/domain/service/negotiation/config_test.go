package negotiation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bargain/internal/domain/service/negotiation"
)

func TestConfigValidate(t *testing.T) {
	rq := require.New(t)

	rq.NoError(negotiation.DefaultConfig().Validate())
	rq.Equal(30*time.Second, negotiation.DefaultConfig().ValidityWindow())

	testCases := []struct {
		name   string
		mutate func(*negotiation.Config)
		errMsg string
	}{
		{name: "No validity", mutate: func(c *negotiation.Config) { c.ValidityUnits = 0 }, errMsg: "validity units"},
		{name: "No time unit", mutate: func(c *negotiation.Config) { c.TimeUnit = 0 }, errMsg: "time unit"},
		{name: "Negative steps", mutate: func(c *negotiation.Config) { c.ProgressSteps = -1 }, errMsg: "progress steps"},
		{name: "Steps without interval", mutate: func(c *negotiation.Config) { c.ProgressInterval = 0 }, errMsg: "progress interval"},
		{name: "Negative places", mutate: func(c *negotiation.Config) { c.RoundingPlaces = -2 }, errMsg: "rounding places"},
		{name: "No idle ttl", mutate: func(c *negotiation.Config) { c.SessionIdleTTL = 0 }, errMsg: "session idle ttl"},
		{name: "No commit timeout", mutate: func(c *negotiation.Config) { c.CommitTimeout = 0 }, errMsg: "commit timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			cfg := negotiation.DefaultConfig()
			tc.mutate(&cfg)

			rq.ErrorContains(cfg.Validate(), tc.errMsg)
		})
	}

	cfg := negotiation.DefaultConfig()
	cfg.ProgressSteps = 0
	cfg.ProgressInterval = 0
	rq.NoError(cfg.Validate())
}
