package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"bargain/pkg/contextx"
	"bargain/pkg/errcodes"
	"bargain/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

// coded is implemented by domain errors that carry their own error code.
type coded interface {
	error
	ErrorCode() failure.ErrorCode
}

//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.ValidationError:     http.StatusBadRequest,
	errcodes.InvalidInput:        http.StatusBadRequest,
	errcodes.PriceTooHigh:        http.StatusUnprocessableEntity,
	errcodes.DuplicateAttempt:    http.StatusUnprocessableEntity,
	errcodes.UnitMismatch:        http.StatusUnprocessableEntity,
	errcodes.UnsupportedCurrency: http.StatusUnprocessableEntity,
	errcodes.InvalidExchangeRate: http.StatusUnprocessableEntity,
	errcodes.SessionNotFound:     http.StatusNotFound,
	errcodes.NotFound:            http.StatusNotFound,
	errcodes.OfferExpired:        http.StatusGone,
	errcodes.PriceDrift:          http.StatusConflict,
	errcodes.InvalidPhase:        http.StatusConflict,
	errcodes.TooManyRequests:     http.StatusTooManyRequests,
	errcodes.Forbidden:           http.StatusForbidden,
	errcodes.BookingFailed:       http.StatusBadGateway,
	errcodes.TimeoutExceeded:     http.StatusGatewayTimeout,
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// StatusFor returns the HTTP status a domain error code is reported with.
func StatusFor(code failure.ErrorCode) (int, bool) {
	status, ok := statusByCode[code]
	return status, ok
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	var domainErr coded
	if errors.As(err, &domainErr) {
		status, ok := StatusFor(domainErr.ErrorCode())
		if !ok {
			status = http.StatusInternalServerError
		}

		if status >= http.StatusInternalServerError {
			logger(ctx).Error("error", logx.Error(err))
		} else {
			logger(ctx).Info("rejected", logx.Error(err))
		}

		JSON(ctx, w, status, errorResponse{
			Code:      domainErr.ErrorCode().String(),
			Message:   domainErr.Error(),
			SupportID: supportID(ctx),
		})

		return
	}

	logger(ctx).Error("error", logx.Error(err))

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsUnauthorizedError(err):
		JSON(ctx, w, http.StatusUnauthorized, response)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		JSON(ctx, w, http.StatusForbidden, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
