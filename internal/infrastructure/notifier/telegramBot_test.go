package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/value"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*telego.SendMessageParams
	err  error
}

func (r *recordingSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	r.sent = append(r.sent, params)

	return &telego.Message{}, nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sent)
}

func offer(outcome value.Outcome) entity.SettledOffer {
	return entity.SettledOffer{
		SessionID:    "01JAB0000000000000000000S1",
		Unit:         value.NewUnitKey("hotel-42", "deluxe<king>"),
		Outcome:      outcome,
		SettledPrice: decimal.RequireFromString("26250"),
		GrandTotal:   decimal.RequireFromString("29400"),
		ValidUntil:   time.Date(2026, 10, 18, 12, 0, 30, 0, time.UTC),
	}
}

func TestFormatOffer(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		outcome  value.Outcome
		contains []string
	}{
		{
			name:     "Accepted",
			outcome:  value.OutcomeAccepted,
			contains: []string{"Offer accepted", "26250.00", "29400.00", "12:00:30"},
		},
		{
			name:     "Countered",
			outcome:  value.OutcomeCountered,
			contains: []string{"Counter offer", "hotel-42/deluxe&lt;king&gt;"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			text := FormatOffer(offer(tc.outcome))
			for _, s := range tc.contains {
				rq.Contains(text, s)
			}
		})
	}
}

func TestTelegramBotRun(t *testing.T) {
	rq := require.New(t)

	sender := &recordingSender{}
	bot := &TelegramBot{bot: sender, chatID: 42}

	offers := make(chan entity.SettledOffer, 2)
	hook := Enqueue(offers)

	hook(context.Background(), offer(value.OutcomeAccepted))
	hook(context.Background(), offer(value.OutcomeCountered))
	// Full queue drops the offer instead of blocking the session.
	hook(context.Background(), offer(value.OutcomeCountered))
	close(offers)

	rq.NoError(bot.Run(context.Background(), offers))
	rq.Equal(2, sender.count())
	rq.Equal(int64(42), sender.sent[0].ChatID.ID)
	rq.Equal(telego.ModeHTML, sender.sent[0].ParseMode)
}

func TestTelegramBotRunStopsOnContext(t *testing.T) {
	rq := require.New(t)

	sender := &recordingSender{err: errors.New("telegram is down")}
	bot := &TelegramBot{bot: sender, chatID: 42}

	ctx, cancel := context.WithCancel(context.Background())
	offers := make(chan entity.SettledOffer, 1)
	offers <- offer(value.OutcomeAccepted)

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx, offers) }()

	rq.Eventually(func() bool { return len(offers) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	rq.ErrorIs(<-done, context.Canceled)
	rq.Zero(sender.count())
}
