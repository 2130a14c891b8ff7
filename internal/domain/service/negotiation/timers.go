package negotiation

import (
	"log/slog"
	"slices"
	"time"

	"github.com/benbjohnson/clock"

	"bargain/internal/domain/value"
	"bargain/pkg/logx"
)

// invalidateLocked stops every timer started so far. Timers compare their
// epoch under the lock before acting, so a stale tick never applies.
func (s *Session) invalidateLocked() {
	s.epoch++
	close(s.done)
	s.done = make(chan struct{})
}

func (s *Session) startPacingLocked() {
	ticker := s.deps.Clock.Ticker(s.cfg.ProgressInterval)
	go s.runTicker(ticker, s.done, s.epoch, s.progressLocked)
}

func (s *Session) startCountdownLocked() {
	ticker := s.deps.Clock.Ticker(s.cfg.TimeUnit)
	go s.runTicker(ticker, s.done, s.epoch, s.countdownLocked)
}

// runTicker calls tick under the session lock until it reports completion or
// the epoch is invalidated.
func (s *Session) runTicker(
	ticker *clock.Ticker,
	done <-chan struct{},
	epoch uint64,
	tick func(epoch uint64) (bool, batch),
) {
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			finished, events := tick(epoch)
			s.mu.Unlock()

			events.run()

			if finished {
				return
			}
		}
	}
}

func (s *Session) progressLocked(epoch uint64) (bool, batch) {
	if epoch != s.epoch || s.phase != value.PhaseNegotiating {
		return true, nil
	}

	s.steps++

	progress := Progress{
		SessionID: s.id,
		Step:      s.steps,
		Steps:     s.cfg.ProgressSteps,
		Percent:   s.steps * 100 / s.cfg.ProgressSteps, //nolint:mnd
	}
	subs := slices.Clone(s.progressSubs)

	events := batch{func() {
		for _, sub := range subs {
			sub(progress)
		}
	}}

	if s.steps < s.cfg.ProgressSteps {
		return false, events
	}

	// decideLocked logs its own failure; the session is rejected then.
	settled, _ := s.decideLocked(s.context()) //nolint:errcheck

	return true, append(events, settled...)
}

func (s *Session) countdownLocked(epoch uint64) (bool, batch) {
	if epoch != s.epoch || s.phase != value.PhaseSettled {
		return true, nil
	}

	now := s.deps.Clock.Now()
	if !now.Before(s.validUntil) {
		return true, s.expireLocked()
	}

	s.remaining = remainingUnits(s.validUntil.Sub(now), s.cfg.TimeUnit)

	return false, s.countdownEventLocked()
}

// expireIfDueLocked applies the expiry a late countdown tick would apply.
// Every read or commit goes through it so an elapsed offer never looks valid.
func (s *Session) expireIfDueLocked() batch {
	if s.phase != value.PhaseSettled || s.deps.Clock.Now().Before(s.validUntil) {
		return nil
	}

	return s.expireLocked()
}

func (s *Session) expireLocked() batch {
	s.invalidateLocked()
	s.phase = value.PhaseExpired
	s.remaining = 0
	s.snapshot = nil
	s.locked = nil

	s.log.Info("offer expired", slog.Time(logx.FieldValidUntil, s.validUntil))

	events := s.countdownEventLocked()

	hooks := slices.Clone(s.expiredHooks)
	id := s.id
	ctx := s.context()

	return append(events, func() {
		for _, hook := range hooks {
			hook(ctx, id)
		}
	})
}

func (s *Session) countdownEventLocked() batch {
	countdown := Countdown{
		SessionID:  s.id,
		Remaining:  s.remaining,
		ValidUntil: s.validUntil,
	}
	subs := slices.Clone(s.countdownSubs)

	return batch{func() {
		for _, sub := range subs {
			sub(countdown)
		}
	}}
}

func remainingUnits(left, unit time.Duration) int {
	if left <= 0 {
		return 0
	}

	return int((left + unit - 1) / unit)
}
