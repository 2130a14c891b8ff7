package negotiation

import (
	"context"
	"time"

	"bargain/internal/domain/entity"
)

// Progress is reported on every deliberation tick.
type Progress struct {
	SessionID string
	Step      int
	Steps     int
	Percent   int
}

// Countdown is reported on every validity tick. Remaining reaches zero when
// the offer expires.
type Countdown struct {
	SessionID  string
	Remaining  int
	ValidUntil time.Time
}

type (
	SettledFunc   func(entity.SettledOffer)
	ProgressFunc  func(Progress)
	CountdownFunc func(Countdown)
	// SettledHook is called on every settlement of a session, unlike the
	// one-shot OnSettled subscription.
	SettledHook func(ctx context.Context, offer entity.SettledOffer)
	// ExpiredHook is called when an offer runs out before commit.
	ExpiredHook func(ctx context.Context, sessionID string)
)
