package handler

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"bargain/internal/transport/bot/view"
	"bargain/pkg/logx"
)

// OnBookCallback commits the offer at the total shown at checkout.
func (h *Handler) OnBookCallback(ctx *th.Context, query telego.CallbackQuery) error {
	sessionID, ok := sessionFromCallback(callbackBook, query.Data)
	if !ok {
		return h.answer(ctx, query, "unknown action")
	}

	text := h.book(ctx, sessionID)

	h.editMessage(ctx, query, text)

	return h.answer(ctx, query, "")
}

func (h *Handler) book(ctx *th.Context, sessionID string) string {
	checkout, err := h.svc.Checkout(ctx, sessionID)
	if err != nil {
		return failureText(err)
	}

	result, err := h.svc.CommitBooking(ctx, sessionID, checkout.GrandTotal)
	if err != nil {
		return failureText(err)
	}

	return view.Booked(result.Booking)
}

func (h *Handler) OnDropCallback(ctx *th.Context, query telego.CallbackQuery) error {
	sessionID, ok := sessionFromCallback(callbackDrop, query.Data)
	if !ok {
		return h.answer(ctx, query, "unknown action")
	}

	text := view.Dropped(sessionID)
	if err := h.svc.Abandon(ctx, sessionID); err != nil {
		text = failureText(err)
	}

	h.editMessage(ctx, query, text)

	return h.answer(ctx, query, "")
}

func (h *Handler) editMessage(ctx *th.Context, query telego.CallbackQuery, text string) {
	if query.Message == nil {
		return
	}

	_, err := ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(query.Message.GetChat().ID),
		MessageID: query.Message.GetMessageID(),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	if err != nil {
		logger(ctx).Warn("edit message", slog.String("callback", query.Data), logx.Error(err))
	}
}

func (h *Handler) answer(ctx *th.Context, query telego.CallbackQuery, text string) error {
	params := tu.CallbackQuery(query.ID)
	if text != "" {
		params = params.WithText(text).WithShowAlert()
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, params)
}
