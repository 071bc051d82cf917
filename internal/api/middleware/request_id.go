package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const RequestIDKey contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID. An inbound X-Request-ID is
// trusted so callers can correlate retries; otherwise one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), RequestIDKey, id)))
	})
}

// GetRequestID returns the request ID from context, or "" if absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
