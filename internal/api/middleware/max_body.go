package middleware

import (
	"net/http"

	"github.com/lanewise/lanewise/internal/api"
)

// MaxBodyBytes caps the request body at limit bytes. A declared
// Content-Length over the cap is rejected up front; chunked bodies are
// capped by MaxBytesReader and fail at read time instead.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case limit <= 0 || r.Body == nil:
				// nothing to cap
			case r.ContentLength != -1 && r.ContentLength > limit:
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			default:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
