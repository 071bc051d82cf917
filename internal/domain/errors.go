package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeInvalidFilter    = "INVALID_FILTER"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeCancelled        = "CANCELLED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Filter validation errors
var (
	ErrLimitOutOfBounds  = NewDomainError(ErrCodeInvalidFilter, "limit must be between 1 and 100")
	ErrOffsetNegative    = NewDomainError(ErrCodeInvalidFilter, "offset must not be negative")
	ErrInvertedDateRange = NewDomainError(ErrCodeInvalidFilter, "date range start must not be after end")
	ErrQueryTooLong      = NewDomainError(ErrCodeInvalidFilter, "free-text query exceeds maximum length")
)

// Store errors
var (
	ErrStoreUnavailable = NewDomainError(ErrCodeStoreUnavailable, "shipment store unavailable")
)

// Client-side cancellation. Routine, never rendered as a user-facing failure.
var (
	ErrSearchCancelled = NewDomainError(ErrCodeCancelled, "search cancelled")
	ErrSearchTimedOut  = NewDomainError(ErrCodeCancelled, "search timed out")
)

// Not found errors
var (
	ErrSavedCompanyNotFound = NewDomainError(ErrCodeNotFound, "saved company not found")
)

// Authorization errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)
