package middleware

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"bargain/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// AdminOnly drops updates from anyone but the admin.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if SenderID(update) != adminID {
			logger(ctx).Warn("update from a non-admin user dropped", slog.Int64("user-id", SenderID(update)))
			return nil
		}

		return ctx.Next(update)
	}
}

// SenderID returns the user behind a message or a callback query, 0 if none.
func SenderID(update telego.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	default:
		return 0
	}
}
