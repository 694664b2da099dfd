package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the
// code they were raised with.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Lifecycle codes that only exist on the wire
const (
	ErrCodeInvoiceRejected = "INVOICE_REJECTED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	"OWNERSHIP_VIOLATION": http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:               http.StatusNotFound,
	"INVOICE_NOT_FOUND":           http.StatusNotFound,
	"PRODUCT_NOT_FOUND":           http.StatusNotFound,
	"ALREADY_EXISTS":              http.StatusConflict,
	"DUPLICATE_BILL_NO":           http.StatusConflict,
	"PRODUCT_ALREADY_EXISTS":      http.StatusConflict,
	"PRODUCT_IN_USE":              http.StatusConflict,
	"EMAIL_ALREADY_EXISTS":        http.StatusConflict,
	"VERSION_CONFLICT":            http.StatusConflict,
	"INVOICE_CANNOT_BE_CANCELLED": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvoiceRejected: http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// The per-owner submission lock could not be taken in time
	"LOCK_NOT_OBTAINED": http.StatusServiceUnavailable,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unlisted
// INVALID_* codes are field validation failures; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
