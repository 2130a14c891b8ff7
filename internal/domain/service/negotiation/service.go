package negotiation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
	"bargain/pkg/logx"
)

const evictionInterval = time.Minute

// CommitHook observes every commit attempt that reached a settled session.
type CommitHook func(ctx context.Context, sessionID string, result entity.CommitResult, err error)

// Service keeps the live sessions of this process. Sessions idle for longer
// than Config.SessionIdleTTL are closed and forgotten.
type Service struct {
	cfg       Config
	engine    Decider
	guard     PriceGuard
	committer BookingCommitter
	clock     clock.Clock
	sessions  *cache.Cache

	ratesMu sync.RWMutex
	rates   Converter

	settledHooks []SettledHook
	expiredHooks []ExpiredHook
	commitHooks  []CommitHook
}

func NewService(
	cfg Config,
	engine Decider,
	rates Converter,
	guard PriceGuard,
	committer BookingCommitter,
) *Service {
	s := &Service{
		cfg:       cfg,
		engine:    engine,
		rates:     rates,
		guard:     guard,
		committer: committer,
		clock:     clock.New(),
		sessions:  cache.New(cfg.SessionIdleTTL, min(cfg.SessionIdleTTL, evictionInterval)),
	}

	s.sessions.OnEvicted(func(_ string, item any) {
		if session, ok := item.(*Session); ok {
			session.Close()
		}
	})

	return s
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) WithSettledHook(hook SettledHook) *Service {
	s.settledHooks = append(s.settledHooks, hook)
	return s
}

func (s *Service) WithExpiredHook(hook ExpiredHook) *Service {
	s.expiredHooks = append(s.expiredHooks, hook)
	return s
}

func (s *Service) WithCommitHook(hook CommitHook) *Service {
	s.commitHooks = append(s.commitHooks, hook)
	return s
}

// SetRates swaps the exchange-rate table. Open sessions keep the table they
// started with.
func (s *Service) SetRates(rates Converter) {
	s.ratesMu.Lock()
	defer s.ratesMu.Unlock()

	s.rates = rates
}

func (s *Service) currentRates() Converter {
	s.ratesMu.RLock()
	defer s.ratesMu.RUnlock()

	return s.rates
}

func (s *Service) Open(ctx context.Context, req OpenRequest) (entity.SessionState, error) {
	id := newID()

	session, err := NewSession(ctx, id, req, s.cfg, Deps{
		Engine:    s.engine,
		Rates:     s.currentRates(),
		Guard:     s.guard,
		Committer: s.committer,
		Clock:     s.clock,
		NewID:     newID,
	})
	if err != nil {
		return entity.SessionState{}, fmt.Errorf("open session: %w", err)
	}

	for _, hook := range s.settledHooks {
		session.WithSettledHook(hook)
	}

	for _, hook := range s.expiredHooks {
		session.WithExpiredHook(hook)
	}

	s.sessions.SetDefault(id, session)

	logger(ctx).Info("session opened",
		slog.String(logx.FieldSessionID, id),
		logx.Stringer(logx.FieldUnitKey, req.Unit),
	)

	return session.State(), nil
}

func (s *Service) SubmitTarget(
	ctx context.Context,
	sessionID string,
	unit value.UnitKey,
	amount decimal.Decimal,
	currency value.Currency,
) (entity.SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return entity.SessionState{}, err
	}

	state, err := session.Submit(ctx, unit, amount, currency)
	if err != nil {
		return state, fmt.Errorf("submit target: %w", err)
	}

	return state, nil
}

// OnSettled subscribes cb to the next settlement of the session.
func (s *Service) OnSettled(sessionID string, cb SettledFunc) error {
	session, err := s.get(sessionID)
	if err != nil {
		return err
	}

	session.OnSettled(cb)

	return nil
}

func (s *Service) OnProgress(sessionID string, cb ProgressFunc) error {
	session, err := s.get(sessionID)
	if err != nil {
		return err
	}

	session.OnProgress(cb)

	return nil
}

func (s *Service) OnCountdown(sessionID string, cb CountdownFunc) error {
	session, err := s.get(sessionID)
	if err != nil {
		return err
	}

	session.OnCountdown(cb)

	return nil
}

// CommitBooking books the settled offer of the session. A booked session is
// dropped from the registry.
func (s *Service) CommitBooking(
	ctx context.Context,
	sessionID string,
	computedTotal decimal.Decimal,
) (entity.CommitResult, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return entity.CommitResult{}, err
	}

	result, err := session.Commit(ctx, computedTotal)

	for _, hook := range s.commitHooks {
		hook(ctx, sessionID, result, err)
	}

	if err != nil {
		return result, fmt.Errorf("commit booking: %w", err)
	}

	s.sessions.Delete(sessionID)

	return result, nil
}

func (s *Service) Retry(_ context.Context, sessionID string) (entity.SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return entity.SessionState{}, err
	}

	state, err := session.Retry()
	if err != nil {
		return state, fmt.Errorf("retry: %w", err)
	}

	return state, nil
}

func (s *Service) State(_ context.Context, sessionID string) (entity.SessionState, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return entity.SessionState{}, err
	}

	return session.State(), nil
}

func (s *Service) Checkout(_ context.Context, sessionID string) (Checkout, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return Checkout{}, err
	}

	checkout, err := session.Checkout()
	if err != nil {
		return Checkout{}, fmt.Errorf("checkout: %w", err)
	}

	return checkout, nil
}

// Abandon closes the session and drops it.
func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	if _, err := s.get(sessionID); err != nil {
		return err
	}

	s.sessions.Delete(sessionID)

	logger(ctx).Info("session abandoned", slog.String(logx.FieldSessionID, sessionID))

	return nil
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	return s.sessions.ItemCount()
}

// Shutdown closes every live session.
func (s *Service) Shutdown(ctx context.Context) {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}

	logger(ctx).Info("negotiation sessions closed")
}

// get returns a live session and restarts its idle timer.
func (s *Service) get(sessionID string) (*Session, error) {
	item, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.Errorf(errcodes.SessionNotFound, "session %q not found", sessionID)
	}

	session, ok := item.(*Session)
	if !ok {
		return nil, domain.Errorf(errcodes.InternalServerError, "session %q has unexpected type %T", sessionID, item)
	}

	// Replace fails when the session was dropped since Get, so a concurrent
	// abandon or booking is never undone by the touch.
	if err := s.sessions.Replace(sessionID, session, cache.DefaultExpiration); err != nil {
		return nil, domain.Errorf(errcodes.SessionNotFound, "session %q not found", sessionID)
	}

	return session, nil
}

func newID() string {
	return ulid.Make().String()
}
