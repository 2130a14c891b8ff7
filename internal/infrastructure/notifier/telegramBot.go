package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/value"
	"bargain/pkg/contextx"
	"bargain/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot posts settled offers to an operator chat.
type TelegramBot struct {
	bot    messageSender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run sends offers from the channel until ctx is done or the channel is
// closed.
func (b *TelegramBot) Run(ctx context.Context, offers <-chan entity.SettledOffer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case offer, ok := <-offers:
			if !ok {
				return nil
			}
			if err := b.SendOffer(ctx, offer); err != nil {
				logger(ctx).Error("failed to send offer",
					slog.String(logx.FieldSessionID, offer.SessionID),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendOffer(ctx context.Context, offer entity.SettledOffer) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatOffer(offer),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func FormatOffer(offer entity.SettledOffer) string {
	headline := "🤝 <b>Counter offer</b>"
	if offer.Outcome == value.OutcomeAccepted {
		headline = "✅ <b>Offer accepted</b>"
	}

	return fmt.Sprintf(
		"%s\n\n"+
			"🏷 <b>Unit:</b> %s\n"+
			"💰 <b>Price:</b> %s\n"+
			"🧾 <b>Total:</b> %s\n"+
			"⏳ <b>Valid until:</b> %s\n"+
			"🆔 <code>%s</code>",
		headline,
		html.EscapeString(offer.Unit.String()),
		offer.SettledPrice.StringFixed(2), //nolint:mnd
		offer.GrandTotal.StringFixed(2),   //nolint:mnd
		offer.ValidUntil.UTC().Format(time.TimeOnly),
		html.EscapeString(offer.SessionID),
	)
}

// Enqueue returns a settlement hook feeding the channel Run drains. Offers
// are dropped while the channel is full.
func Enqueue(offers chan<- entity.SettledOffer) func(context.Context, entity.SettledOffer) {
	return func(ctx context.Context, offer entity.SettledOffer) {
		select {
		case offers <- offer:
		default:
			logger(ctx).Warn("notifier queue is full, offer dropped",
				slog.String(logx.FieldSessionID, offer.SessionID))
		}
	}
}
