// Package negotiation runs one bargaining session per unit: it validates
// target prices, paces the engine decision, keeps the settled offer alive for
// its validity window and gates the booking commit on the price snapshot.
package negotiation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/benbjohnson/clock"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/integrity"
	"bargain/internal/domain/value"
	"bargain/pkg/contextx"
	"bargain/pkg/errcodes"
	"bargain/pkg/logx"
)

type Decider interface {
	Decide(requested, reference decimal.Decimal) (entity.CounterOffer, error)
}

type Converter interface {
	Convert(amount decimal.Decimal, from value.Currency) (decimal.Decimal, error)
	Canonical() value.Currency
}

type PriceGuard interface {
	Capture(lc entity.LockedContext, now time.Time) entity.PriceSnapshot
	Total(lc entity.LockedContext) decimal.Decimal
	Verify(snapshot entity.PriceSnapshot, computedTotal decimal.Decimal) integrity.Verification
}

// BookingCommitter receives the booking once the price check passed. An error
// leaves the session settled so the user can try again.
type BookingCommitter interface {
	CommitBooking(ctx context.Context, booking entity.Booking) error
}

type Deps struct {
	Engine    Decider
	Rates     Converter
	Guard     PriceGuard
	Committer BookingCommitter
	Clock     clock.Clock
	NewID     func() string
}

type OpenRequest struct {
	Unit      value.UnitKey
	Reference decimal.Decimal
	QuotedAt  time.Time
	Stay      entity.StayContext
	Extras    []entity.Extra
	TaxRate   decimal.Decimal
}

// validate checks the request against the reference as it will be stored,
// i.e. after rounding to roundingPlaces.
func (r OpenRequest) validate(roundingPlaces int32) error {
	if r.Unit.IsZero() {
		return domain.NewError(errcodes.InvalidInput, "unit key is empty")
	}

	if reference := r.Reference.Round(roundingPlaces); !reference.IsPositive() {
		return domain.Errorf(errcodes.InvalidInput, "reference price %s rounds to %s, must be positive", r.Reference, reference)
	}

	if r.TaxRate.IsNegative() {
		return domain.Errorf(errcodes.InvalidInput, "tax rate %s must not be negative", r.TaxRate)
	}

	for _, extra := range r.Extras {
		if extra.Amount.IsNegative() {
			return domain.Errorf(errcodes.InvalidInput, "extra %q has negative amount %s", extra.Name, extra.Amount)
		}
	}

	return nil
}

// Checkout is what the checkout screen renders: the locked context and the
// total computed from it.
type Checkout struct {
	Context    entity.LockedContext
	GrandTotal decimal.Decimal
	ValidUntil time.Time
	Remaining  int
}

type Session struct {
	id        string
	reference entity.ReferencePrice
	stay      entity.StayContext
	extras    []entity.Extra
	taxRate   decimal.Decimal

	cfg  Config
	deps Deps
	log  *slog.Logger

	mu sync.Mutex
	// epoch identifies the timers allowed to act; done is closed whenever
	// the epoch moves on.
	epoch         uint64
	done          chan struct{}
	phase         value.Phase
	used          map[string]struct{}
	attempts      []entity.Attempt
	pending       *entity.Attempt
	steps         int
	offer         *entity.CounterOffer
	validUntil    time.Time
	remaining     int
	snapshot      *entity.PriceSnapshot
	locked        *entity.LockedContext
	lastRejection failure.ErrorCode

	settledOnce   []SettledFunc
	progressSubs  []ProgressFunc
	countdownSubs []CountdownFunc
	settledHooks  []SettledHook
	expiredHooks  []ExpiredHook
}

func NewSession(ctx context.Context, id string, req OpenRequest, cfg Config, deps Deps) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("negotiation config: %w", err)
	}

	if deps.Engine == nil || deps.Rates == nil || deps.Guard == nil || deps.Committer == nil {
		return nil, domain.NewError(errcodes.InternalServerError, "session dependencies are incomplete")
	}

	if err := req.validate(cfg.RoundingPlaces); err != nil {
		return nil, err
	}

	if deps.Clock == nil {
		deps.Clock = clock.New()
	}

	if deps.NewID == nil {
		deps.NewID = func() string { return ulid.Make().String() }
	}

	if id == "" {
		id = deps.NewID()
	}

	quotedAt := req.QuotedAt
	if quotedAt.IsZero() {
		quotedAt = deps.Clock.Now()
	}

	return &Session{
		id: id,
		reference: entity.ReferencePrice{
			Unit:     req.Unit,
			Amount:   req.Reference.Round(cfg.RoundingPlaces),
			QuotedAt: quotedAt,
		},
		stay:    req.Stay,
		extras:  slices.Clone(req.Extras),
		taxRate: req.TaxRate,
		cfg:     cfg,
		deps:    deps,
		log: logger(ctx).With(
			slog.String(logx.FieldSessionID, id),
			logx.Stringer(logx.FieldUnitKey, req.Unit),
		),
		done:  make(chan struct{}),
		phase: value.PhaseInput,
		used:  make(map[string]struct{}),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) WithSettledHook(hook SettledHook) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settledHooks = append(s.settledHooks, hook)
	return s
}

func (s *Session) WithExpiredHook(hook ExpiredHook) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expiredHooks = append(s.expiredHooks, hook)
	return s
}

// Submit validates a target price and hands it to the engine. Rejections move
// the session to Rejected; a duplicate or too-high price never reaches the
// engine.
func (s *Session) Submit(
	ctx context.Context,
	unit value.UnitKey,
	amount decimal.Decimal,
	currency value.Currency,
) (entity.SessionState, error) {
	s.mu.Lock()
	events, err := s.submitLocked(ctx, unit, amount, currency)
	state := s.stateLocked()
	s.mu.Unlock()

	events.run()

	return state, err
}

func (s *Session) submitLocked(
	ctx context.Context,
	unit value.UnitKey,
	amount decimal.Decimal,
	currency value.Currency,
) (batch, error) {
	if !s.phase.AcceptsTarget() {
		return nil, domain.Errorf(errcodes.InvalidPhase, "cannot submit a target price in phase %s", s.phase)
	}

	target, err := s.validateTargetLocked(unit, amount, currency)
	if err != nil {
		s.rejectLocked(err)
		logger(ctx).Info("target price rejected",
			slog.String(logx.FieldSessionID, s.id),
			slog.String(logx.FieldTargetPrice, amount.String()),
			logx.Error(err),
		)

		return nil, err
	}

	attempt := entity.Attempt{
		Unit:           unit,
		TargetPrice:    target,
		Currency:       currency,
		OriginalAmount: amount,
		Timestamp:      s.deps.Clock.Now(),
	}

	s.used[attemptKey(unit, target)] = struct{}{}
	s.attempts = append(s.attempts, attempt)
	s.pending = &attempt
	s.steps = 0
	s.offer = nil
	s.lastRejection = ""
	s.phase = value.PhaseNegotiating

	logger(ctx).Info("negotiation started",
		slog.String(logx.FieldSessionID, s.id),
		slog.String(logx.FieldTargetPrice, target.String()),
	)

	if s.cfg.ProgressSteps == 0 {
		return s.decideLocked(ctx)
	}

	s.startPacingLocked()

	return nil, nil
}

func (s *Session) validateTargetLocked(
	unit value.UnitKey,
	amount decimal.Decimal,
	currency value.Currency,
) (decimal.Decimal, error) {
	if unit != s.reference.Unit {
		return decimal.Zero, domain.Errorf(errcodes.UnitMismatch, "session negotiates %s, got %s", s.reference.Unit, unit)
	}

	if !amount.IsPositive() {
		return decimal.Zero, domain.Errorf(errcodes.InvalidInput, "target price %s must be positive", amount)
	}

	converted, err := s.deps.Rates.Convert(amount, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert target price: %w", err)
	}

	target := converted.Round(s.cfg.RoundingPlaces)
	if !target.IsPositive() {
		return decimal.Zero, domain.Errorf(errcodes.InvalidInput, "target price %s rounds to %s", amount, target)
	}

	if _, ok := s.used[attemptKey(unit, target)]; ok {
		return decimal.Zero, domain.Errorf(errcodes.DuplicateAttempt, "target price %s was already tried", target)
	}

	if target.GreaterThanOrEqual(s.reference.Amount) {
		return decimal.Zero, domain.Errorf(errcodes.PriceTooHigh,
			"target price %s is not below the reference price %s", target, s.reference.Amount)
	}

	return target, nil
}

func (s *Session) rejectLocked(err error) {
	s.phase = value.PhaseRejected

	if code, ok := domain.GetCode(err); ok {
		s.lastRejection = code
	} else {
		s.lastRejection = errcodes.InternalServerError
	}
}

func (s *Session) decideLocked(ctx context.Context) (batch, error) {
	attempt := s.pending
	s.pending = nil

	offer, err := s.deps.Engine.Decide(attempt.TargetPrice, s.reference.Amount)
	if err != nil {
		logger(ctx).Error("counter offer failed",
			slog.String(logx.FieldSessionID, s.id),
			slog.String(logx.FieldTargetPrice, attempt.TargetPrice.String()),
			logx.Error(err),
		)
		s.rejectLocked(err)

		return nil, fmt.Errorf("decide counter offer: %w", err)
	}

	now := s.deps.Clock.Now()

	lc := entity.LockedContext{
		Unit:            s.reference.Unit,
		Stay:            s.stay,
		SettledPrice:    offer.SettledPrice,
		MandatoryExtras: slices.Clone(s.extras),
		TaxRate:         s.taxRate,
		Currency:        s.deps.Rates.Canonical(),
		LockedAt:        now,
	}
	snapshot := s.deps.Guard.Capture(lc, now)

	s.offer = &offer
	s.locked = &lc
	s.snapshot = &snapshot
	s.validUntil = now.Add(s.cfg.ValidityWindow())
	s.remaining = s.cfg.ValidityUnits
	s.phase = value.PhaseSettled

	s.startCountdownLocked()

	settled := s.settledOfferLocked()

	logger(ctx).Info("offer settled",
		slog.String(logx.FieldSessionID, s.id),
		slog.String(logx.FieldOutcome, offer.Outcome.String()),
		slog.String(logx.FieldSettledPrice, offer.SettledPrice.String()),
		slog.String(logx.FieldGrandTotal, snapshot.GrandTotal.String()),
		slog.Time(logx.FieldValidUntil, s.validUntil),
	)

	subs := s.settledOnce
	s.settledOnce = nil
	hooks := slices.Clone(s.settledHooks)
	hookCtx := s.context()

	return batch{func() {
		for _, sub := range subs {
			sub(settled)
		}

		for _, hook := range hooks {
			hook(hookCtx, settled)
		}
	}}, nil
}

func (s *Session) settledOfferLocked() entity.SettledOffer {
	return entity.SettledOffer{
		SessionID:    s.id,
		Unit:         s.reference.Unit,
		Outcome:      s.offer.Outcome,
		SettledPrice: s.offer.SettledPrice,
		GrandTotal:   s.snapshot.GrandTotal,
		ValidUntil:   s.validUntil,
	}
}

// Commit books the settled offer when computedTotal matches the snapshot.
// A drift is reported both in the result and as a PriceDrift error.
func (s *Session) Commit(ctx context.Context, computedTotal decimal.Decimal) (entity.CommitResult, error) {
	s.mu.Lock()
	result, events, err := s.commitLocked(ctx, computedTotal)
	s.mu.Unlock()

	events.run()

	return result, err
}

func (s *Session) commitLocked(
	ctx context.Context,
	computedTotal decimal.Decimal,
) (entity.CommitResult, batch, error) {
	events := s.expireIfDueLocked()

	switch s.phase {
	case value.PhaseSettled:
	case value.PhaseExpired:
		return entity.CommitResult{}, events, domain.Errorf(errcodes.OfferExpired,
			"offer expired at %s", s.validUntil.Format(time.RFC3339))
	default:
		return entity.CommitResult{}, events, domain.Errorf(errcodes.InvalidPhase, "cannot commit in phase %s", s.phase)
	}

	verification := s.deps.Guard.Verify(*s.snapshot, computedTotal)
	if !verification.IsValid {
		logger(ctx).Warn("checkout total drifted from the agreed price",
			slog.String(logx.FieldSessionID, s.id),
			slog.String(logx.FieldGrandTotal, s.snapshot.GrandTotal.String()),
			slog.String(logx.FieldDrift, verification.Drift.String()),
		)

		return entity.CommitResult{Committed: false, Drift: verification.Drift}, events,
			domain.Errorf(errcodes.PriceDrift, "computed total %s differs from the agreed %s by %s",
				computedTotal, s.snapshot.GrandTotal, verification.Drift)
	}

	booking := entity.Booking{
		ID:           s.deps.NewID(),
		SessionID:    s.id,
		Unit:         s.reference.Unit,
		Stay:         s.snapshot.Context.Stay,
		SettledPrice: s.snapshot.Context.SettledPrice,
		GrandTotal:   s.snapshot.GrandTotal,
		Currency:     s.snapshot.Context.Currency,
		CommittedAt:  s.deps.Clock.Now(),
	}

	// Every other call on this session waits for the commit, so it is bounded.
	commitCtx, cancel := context.WithTimeout(ctx, s.cfg.CommitTimeout)
	defer cancel()

	if err := s.deps.Committer.CommitBooking(commitCtx, booking); err != nil {
		logger(ctx).Error("booking commit failed",
			slog.String(logx.FieldSessionID, s.id),
			logx.Error(err),
		)

		return entity.CommitResult{}, events, domain.WrapError(err, errcodes.BookingFailed, "commit booking")
	}

	s.invalidateLocked()
	s.phase = value.PhaseBooked
	s.snapshot = nil
	s.locked = nil
	s.remaining = 0

	logger(ctx).Info("booking committed",
		slog.String(logx.FieldSessionID, s.id),
		slog.String(logx.FieldBookingID, booking.ID),
		slog.String(logx.FieldGrandTotal, booking.GrandTotal.String()),
	)

	return entity.CommitResult{Committed: true, Drift: verification.Drift, Booking: &booking}, events, nil
}

// Retry returns an expired or rejected session to Input. Tried prices are
// kept.
func (s *Session) Retry() (entity.SessionState, error) {
	s.mu.Lock()
	events := s.expireIfDueLocked()

	var err error
	if s.phase == value.PhaseExpired || s.phase == value.PhaseRejected {
		s.phase = value.PhaseInput
		s.offer = nil
		s.validUntil = time.Time{}
		s.remaining = 0
		s.steps = 0
		s.lastRejection = ""
	} else {
		err = domain.Errorf(errcodes.InvalidPhase, "cannot retry in phase %s", s.phase)
	}

	state := s.stateLocked()
	s.mu.Unlock()

	events.run()

	return state, err
}

// Close stops every timer of the session. A booked session stays booked.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == value.PhaseClosed {
		return
	}

	s.invalidateLocked()

	if !s.phase.Terminal() {
		s.phase = value.PhaseClosed
	}

	s.pending = nil
	s.snapshot = nil
	s.locked = nil
	s.remaining = 0
	s.settledOnce = nil
	s.progressSubs = nil
	s.countdownSubs = nil
}

func (s *Session) State() entity.SessionState {
	s.mu.Lock()
	events := s.expireIfDueLocked()
	state := s.stateLocked()
	s.mu.Unlock()

	events.run()

	return state
}

func (s *Session) stateLocked() entity.SessionState {
	state := entity.SessionState{
		ID:               s.id,
		Unit:             s.reference.Unit,
		Reference:        s.reference,
		Phase:            s.phase,
		RemainingUnits:   s.remaining,
		Attempts:         slices.Clone(s.attempts),
		LastRejection:    string(s.lastRejection),
		NegotiationSteps: s.steps,
	}

	if s.offer != nil {
		offer := *s.offer
		state.CounterOffer = &offer
	}

	if s.snapshot != nil {
		total := s.snapshot.GrandTotal
		state.GrandTotal = &total
	}

	if !s.validUntil.IsZero() {
		validUntil := s.validUntil
		state.ValidUntil = &validUntil
	}

	return state
}

// LockedContext returns the context fixed at settlement. It is only
// available while the offer is valid.
func (s *Session) LockedContext() (entity.LockedContext, error) {
	s.mu.Lock()
	events := s.expireIfDueLocked()
	lc, err := s.lockedContextLocked()
	s.mu.Unlock()

	events.run()

	return lc, err
}

func (s *Session) lockedContextLocked() (entity.LockedContext, error) {
	switch s.phase {
	case value.PhaseSettled:
		return s.locked.Clone(), nil
	case value.PhaseExpired:
		return entity.LockedContext{}, domain.NewError(errcodes.OfferExpired, "offer expired")
	default:
		return entity.LockedContext{}, domain.Errorf(errcodes.InvalidPhase, "no settled offer in phase %s", s.phase)
	}
}

func (s *Session) Checkout() (Checkout, error) {
	s.mu.Lock()
	events := s.expireIfDueLocked()
	lc, err := s.lockedContextLocked()
	validUntil, remaining := s.validUntil, s.remaining
	s.mu.Unlock()

	events.run()

	if err != nil {
		return Checkout{}, err
	}

	return Checkout{
		Context:    lc,
		GrandTotal: s.deps.Guard.Total(lc),
		ValidUntil: validUntil,
		Remaining:  remaining,
	}, nil
}

// OnSettled registers a one-shot callback for the next settlement. If the
// session is settled already the callback runs right away.
func (s *Session) OnSettled(cb SettledFunc) {
	s.mu.Lock()
	events := s.expireIfDueLocked()

	if s.phase == value.PhaseSettled {
		settled := s.settledOfferLocked()
		events = append(events, func() { cb(settled) })
	} else if !s.phase.Terminal() {
		s.settledOnce = append(s.settledOnce, cb)
	}
	s.mu.Unlock()

	events.run()
}

func (s *Session) OnProgress(cb ProgressFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progressSubs = append(s.progressSubs, cb)
}

func (s *Session) OnCountdown(cb CountdownFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdownSubs = append(s.countdownSubs, cb)
}

func (s *Session) context() context.Context {
	return contextx.WithLogger(context.Background(), s.log)
}

func attemptKey(unit value.UnitKey, target decimal.Decimal) string {
	return unit.String() + "@" + target.String()
}

// batch holds subscriber calls collected under the lock and run after it is
// released.
type batch []func()

func (b batch) run() {
	for _, f := range b {
		f()
	}
}
