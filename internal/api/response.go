package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanewise/lanewise/internal/domain"
)

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeInvalidFilter:
		return http.StatusBadRequest
	case domain.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case domain.ErrCodeCancelled:
		// Client went away; nobody reads this status, but 499 keeps
		// the access log honest.
		return 499
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error
// type. Domain errors carry their machine-readable code; anything else
// is reported as an opaque internal error so store detail never leaks.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		JSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}
	Error(w, http.StatusInternalServerError, "internal error")
}
