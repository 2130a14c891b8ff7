package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type negotiationService interface {
	Open(context.Context, negotiation.OpenRequest) (entity.SessionState, error)
	SubmitTarget(
		ctx context.Context,
		sessionID string,
		unit value.UnitKey,
		amount decimal.Decimal,
		currency value.Currency,
	) (entity.SessionState, error)
	Checkout(ctx context.Context, sessionID string) (negotiation.Checkout, error)
	CommitBooking(ctx context.Context, sessionID string, computedTotal decimal.Decimal) (entity.CommitResult, error)
	Abandon(ctx context.Context, sessionID string) error
	Len() int
}

type reloader interface {
	IsRunning() bool
}

type Handler struct {
	svc      negotiationService
	reloader reloader
}

func New(svc negotiationService) *Handler {
	return &Handler{
		svc: svc,
	}
}

// WithReloader reports the rates reloader state in /status.
func (h *Handler) WithReloader(r reloader) *Handler {
	h.reloader = r
	return h
}

func (h *Handler) ratesReloading() bool {
	return h.reloader != nil && h.reloader.IsRunning()
}
