package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/pkg/ctxutil"
)

// RequestIDHeader is the header a caller may use to propagate its own
// correlation ID. The same header carries the ID back on the response.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that tags each request with a correlation
// ID, reusing the incoming header when present.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
