package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"bargain/internal/domain"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/transport/bot/view"
	"bargain/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage, nil)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Status(h.svc.Len(), h.ratesReloading()), nil)
}

// OnHaggle opens a session and submits the target in one go.
// Usage: /haggle hotel-42/deluxe 32168 14000 [USD]
func (h *Handler) OnHaggle(ctx *th.Context, msg telego.Message) error {
	args, err := parseHaggle(msg.Text)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.HaggleUsage, nil)
	}

	state, err := h.svc.Open(ctx, negotiation.OpenRequest{
		Unit:      args.unit,
		Reference: args.reference,
	})
	if err != nil {
		return h.sendFailure(ctx, msg.Chat.ID, err)
	}

	state, err = h.svc.SubmitTarget(ctx, state.ID, args.unit, args.target, args.currency)
	if err != nil {
		if abandonErr := h.svc.Abandon(ctx, state.ID); abandonErr != nil {
			logger(ctx).Warn("svc.Abandon", slog.String(logx.FieldSessionID, state.ID), logx.Error(abandonErr))
		}

		return h.sendFailure(ctx, msg.Chat.ID, err)
	}

	checkout, err := h.svc.Checkout(ctx, state.ID)
	if err != nil {
		return h.sendFailure(ctx, msg.Chat.ID, err)
	}

	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("✅ Book").WithCallbackData(callbackData(callbackBook, state.ID)),
			tu.InlineKeyboardButton("🗑 Drop").WithCallbackData(callbackData(callbackDrop, state.ID)),
		),
	)

	return h.sendHTML(ctx, msg.Chat.ID, view.Offer(state, checkout), keyboard)
}

func (h *Handler) sendHTML(
	ctx *th.Context,
	chatID int64,
	text string,
	keyboard *telego.InlineKeyboardMarkup,
) error {
	params := &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	}

	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := ctx.Bot().SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (h *Handler) sendFailure(ctx *th.Context, chatID int64, err error) error {
	return h.sendHTML(ctx, chatID, failureText(err), nil)
}

func failureText(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return view.Failure(appErr.ErrorCode().String(), appErr.Message)
	}

	return view.Failure("", err.Error())
}
