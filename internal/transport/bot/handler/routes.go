package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"bargain/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnHaggle, th.CommandEqual("haggle"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnBookCallback, th.CallbackDataPrefix(callbackBook))
	cbGroup.HandleCallbackQuery(h.OnDropCallback, th.CallbackDataPrefix(callbackDrop))
}
