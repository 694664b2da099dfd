package shared

import "fmt"

// DomainError is a business rule failure identified by a stable code.
// The HTTP layer maps codes to statuses; the message is shown to callers.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Errorf builds a DomainError with a formatted message.
func Errorf(code, format string, args ...any) *DomainError {
	return NewDomainError(code, fmt.Sprintf(format, args...))
}

func (e *DomainError) Error() string { return e.Message }

// Is matches on code alone, so "Invoice 7 not found" is ErrNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("VERSION_CONFLICT", "Resource was modified by another process")
)
