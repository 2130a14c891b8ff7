// Package counteroffer decides how the storefront answers a requested price.
//
// The decision depends only on the requested and reference prices and one
// draw from a RandomSource, so it is fully reproducible in tests.
package counteroffer

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
)

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type Engine struct {
	cfg    Config
	random RandomSource
}

func NewEngine(cfg Config, random RandomSource) *Engine {
	if random == nil {
		random = NewLockedSource(time.Now().UnixNano())
	}

	return &Engine{
		cfg:    cfg,
		random: random,
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Decide classifies the request and produces the settled price.
func (e *Engine) Decide(requested, reference decimal.Decimal) (entity.CounterOffer, error) {
	requested = e.round(requested)
	reference = e.round(reference)

	if !reference.IsPositive() {
		return entity.CounterOffer{}, domain.Errorf(errcodes.InvalidInput, "reference price %s must be positive", reference)
	}

	if !requested.IsPositive() {
		return entity.CounterOffer{}, domain.Errorf(errcodes.InvalidInput, "requested price %s must be positive", requested)
	}

	discount := reference.Sub(requested).Div(reference)
	band := e.Classify(discount)

	var settled decimal.Decimal

	switch band {
	case value.AskModest:
		settled = e.modest(requested, reference)
	case value.AskAggressive:
		settled = e.aggressive(requested, reference)
	default:
		settled = e.round(reference.Mul(e.cfg.FloorMultiplier))
	}

	// Classification follows the output, not the branch that produced it.
	outcome := value.OutcomeCountered
	if settled.Equal(requested) {
		outcome = value.OutcomeAccepted
	}

	return entity.CounterOffer{
		Outcome:        outcome,
		Band:           band,
		SettledPrice:   settled,
		RequestedPrice: requested,
		ReferencePrice: reference,
		Discount:       discount,
	}, nil
}

// Classify maps a discount ratio to its ask band.
func (e *Engine) Classify(discount decimal.Decimal) value.AskBand {
	switch {
	case discount.LessThanOrEqual(e.cfg.ModestThreshold):
		return value.AskModest
	case discount.LessThanOrEqual(e.cfg.AggressiveThreshold):
		return value.AskAggressive
	default:
		return value.AskUnreasonable
	}
}

func (e *Engine) modest(requested, reference decimal.Decimal) decimal.Decimal {
	if e.random.Float64() < e.cfg.AcceptProbability {
		return requested
	}

	counter := e.round(requested.Mul(e.cfg.ModestCounterMultiplier))

	// A counter at or above the catalog price is no deal at all.
	if counter.GreaterThanOrEqual(reference) {
		return requested
	}

	return counter
}

func (e *Engine) aggressive(requested, reference decimal.Decimal) decimal.Decimal {
	ceiling := reference.Mul(e.cfg.CeilingMultiplier)
	counter := decimal.Min(ceiling, requested.Mul(e.cfg.AggressiveCounterMultiplier))

	return e.round(decimal.Max(requested, counter))
}

// round is half-up for the positive amounts the engine deals with.
func (e *Engine) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(e.cfg.RoundingPlaces)
}

// LockedSource is a RandomSource safe for use by concurrent sessions.
type LockedSource struct {
	mu     sync.Mutex
	random *rand.Rand
}

func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{
		random: rand.New(rand.NewSource(seed)), //nolint:gosec // negotiation pacing, not crypto
	}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Float64()
}
