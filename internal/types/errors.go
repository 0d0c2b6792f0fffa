package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorising application errors.
type ErrorCode string

const (
	// NotFound (expected, non-fatal): the identifier is unknown to the
	// upstream gateway, usually because the offender was merged away
	// between raw-event emission and enrichment.
	ErrCodeNotFoundPrisoner ErrorCode = "not_found_prisoner"
	ErrCodeNotFoundBooking  ErrorCode = "not_found_booking"

	// Upstream (transient): propagated to the consumption boundary so the
	// queue's redelivery policy applies.
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// AppError is the standard application error type. All gateway and domain
// errors are expressed as AppError to enable consistent classification at
// the message-consumption boundary.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeNotFoundPrisoner || appErr.Code == ErrCodeNotFoundBooking
	}
	return false
}
