package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/negotiation"
	"bargain/internal/domain/value"
	"bargain/pkg/errcodes"
	"bargain/pkg/httpx/reply"
	"bargain/pkg/httpx/req"
	"bargain/pkg/middlewarex"
	"bargain/pkg/rest"
)

type negotiationService interface {
	Open(context.Context, negotiation.OpenRequest) (entity.SessionState, error)
	SubmitTarget(
		ctx context.Context,
		sessionID string,
		unit value.UnitKey,
		amount decimal.Decimal,
		currency value.Currency,
	) (entity.SessionState, error)
	State(ctx context.Context, sessionID string) (entity.SessionState, error)
	Retry(ctx context.Context, sessionID string) (entity.SessionState, error)
	Checkout(ctx context.Context, sessionID string) (negotiation.Checkout, error)
	CommitBooking(ctx context.Context, sessionID string, computedTotal decimal.Decimal) (entity.CommitResult, error)
	Abandon(ctx context.Context, sessionID string) error
}

type NegotiationServer struct {
	negotiationService negotiationService
	targetLimiter      func(http.Handler) http.Handler
}

func NewNegotiationServer(negotiationService negotiationService) NegotiationServer {
	return NegotiationServer{
		negotiationService: negotiationService,
		targetLimiter:      func(next http.Handler) http.Handler { return next },
	}
}

// WithTargetRateLimit throttles target submissions per client IP.
func (s NegotiationServer) WithTargetRateLimit(limit rate.Limit, burst int) NegotiationServer {
	if limit > 0 && burst > 0 {
		s.targetLimiter = middlewarex.RateLimit(limit, burst)
	}

	return s
}

func (s NegotiationServer) postV1Negotiation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OpenNegotiationRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	openRequest, err := newDomainOpenRequest(request)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainOpenRequest: %w", err),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	state, err := s.negotiationService.Open(ctx, openRequest)
	if err != nil {
		return fmt.Errorf("negotiationService.Open: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTNegotiation(state))

	return nil
}

func (s NegotiationServer) getV1Negotiation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	state, err := s.negotiationService.State(ctx, sessionID(r))
	if err != nil {
		return fmt.Errorf("negotiationService.State: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNegotiation(state))

	return nil
}

func (s NegotiationServer) deleteV1Negotiation(w http.ResponseWriter, r *http.Request) error {
	if err := s.negotiationService.Abandon(r.Context(), sessionID(r)); err != nil {
		return fmt.Errorf("negotiationService.Abandon: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s NegotiationServer) postV1NegotiationTarget(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SubmitTargetRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	state, err := s.negotiationService.SubmitTarget(
		ctx,
		sessionID(r),
		newDomainUnitKey(request.Unit),
		request.TargetPrice,
		value.NewCurrency(request.Currency),
	)
	if err != nil {
		return fmt.Errorf("negotiationService.SubmitTarget: %w", err)
	}

	// Paced decisions finish later; the client polls the session.
	status := http.StatusOK
	if state.Phase == value.PhaseNegotiating {
		status = http.StatusAccepted
	}

	reply.JSON(ctx, w, status, newRESTNegotiation(state))

	return nil
}

func (s NegotiationServer) postV1NegotiationRetry(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	state, err := s.negotiationService.Retry(ctx, sessionID(r))
	if err != nil {
		return fmt.Errorf("negotiationService.Retry: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNegotiation(state))

	return nil
}

func (s NegotiationServer) getV1NegotiationCheckout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	checkout, err := s.negotiationService.Checkout(ctx, sessionID(r))
	if err != nil {
		return fmt.Errorf("negotiationService.Checkout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCheckout(checkout))

	return nil
}

func (s NegotiationServer) postV1NegotiationBooking(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CommitBookingRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.negotiationService.CommitBooking(ctx, sessionID(r), request.ComputedTotal)
	if err == nil {
		reply.JSON(ctx, w, http.StatusCreated, newRESTCommitBookingResponse(result))

		return nil
	}

	// A drifted total is an answer, not a failure: the client gets the drift.
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.ErrorCode() == errcodes.PriceDrift {
		response := newRESTCommitBookingResponse(result)
		response.Code = rest.ErrorCode(appErr.ErrorCode())
		response.Message = appErr.Error()

		status, _ := reply.StatusFor(appErr.ErrorCode())
		reply.JSON(ctx, w, status, response)

		return nil
	}

	return fmt.Errorf("negotiationService.CommitBooking: %w", err)
}
