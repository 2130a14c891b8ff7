package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldMessageID       = "message-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUpstream        = "upstream"

	FieldSessionID    = "session-id"
	FieldUnitKey      = "unit-key"
	FieldPhase        = "phase"
	FieldOutcome      = "outcome"
	FieldTargetPrice  = "target-price"
	FieldSettledPrice = "settled-price"
	FieldGrandTotal   = "grand-total"
	FieldDrift        = "drift"
	FieldValidUntil   = "valid-until"
	FieldBookingID    = "booking-id"
)
