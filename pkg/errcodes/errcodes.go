package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	TooManyRequests     failure.ErrorCode = "TooManyRequests"

	// Negotiation
	InvalidInput        failure.ErrorCode = "InvalidInput"        // non-positive price, broken catalog data
	PriceTooHigh        failure.ErrorCode = "PriceTooHigh"        // target >= reference
	DuplicateAttempt    failure.ErrorCode = "DuplicateAttempt"    // same target price twice in one session
	OfferExpired        failure.ErrorCode = "OfferExpired"        // validity window elapsed
	PriceDrift          failure.ErrorCode = "PriceDrift"          // checkout total differs from the snapshot
	SessionNotFound     failure.ErrorCode = "SessionNotFound"     // unknown or evicted session
	InvalidPhase        failure.ErrorCode = "InvalidPhase"        // operation not allowed in the current phase
	UnitMismatch        failure.ErrorCode = "UnitMismatch"        // target submitted for another fare/rate
	UnsupportedCurrency failure.ErrorCode = "UnsupportedCurrency" // no exchange rate for the currency
	InvalidExchangeRate failure.ErrorCode = "InvalidExchangeRate"
	BookingFailed       failure.ErrorCode = "BookingFailed"
)
