package utils

import (
	"context"
	"errors"
	"net/http"
)

// ErrorKind classifies every failure surfaced to callers. Raw backend errors
// never leave the service layer unclassified.
type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION"
	KindAuthFailure ErrorKind = "AUTH_FAILURE"
	KindConflict    ErrorKind = "CONFLICT"
	KindUnavailable ErrorKind = "BACKEND_UNAVAILABLE"
	KindTimeout     ErrorKind = "TIMEOUT"
	KindUnknown     ErrorKind = "UNKNOWN"
)

// AppError is the structured error carried across service boundaries.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a client-side field check failure. These are
// raised before any backend call is made.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewAuthError reports bad credentials or a rejected OTP.
func NewAuthError(message string) *AppError {
	return &AppError{Kind: KindAuthFailure, Message: message}
}

// NewConflictError reports a uniqueness violation, e.g. a taken slot.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// ClassifyBackendError wraps an unclassified backend failure. Deadline
// expiry maps to TIMEOUT, everything else to BACKEND_UNAVAILABLE.
func ClassifyBackendError(message string, err error) *AppError {
	kind := KindUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &AppError{Kind: kind, Message: message, Err: err}
}

// AsAppError extracts an AppError from an error chain, falling back to an
// UNKNOWN wrapper so handlers always have a kind to report.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindUnknown, Message: "an unexpected error occurred", Err: err}
}

// HTTPStatus maps an error kind to the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
