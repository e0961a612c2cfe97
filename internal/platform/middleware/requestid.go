package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"namehaus/pkg/requestcontext"
)

// RequestID assigns a correlation id to every request and echoes it in the
// response header. Incoming X-Request-ID values are honored so upstream
// proxies can correlate.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
