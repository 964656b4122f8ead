package middleware

import (
	"net/http"
	"time"

	"gatecheck/pkg/requestcontext"
)

// RequestTime pins a single timestamp per request so every layer that asks
// requestcontext.Now sees the same instant.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
