package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"gatecheck/pkg/requestcontext"
)

// SecretHeader carries the shared secret for both privilege levels.
// Authentication proper is out of scope; this gate only models the
// precondition that operators and observers hold different secrets.
const SecretHeader = "X-Gate-Secret"

// RequireSecret rejects requests whose secret header does not match the
// configured value for the role. Comparison is constant-time.
func RequireSecret(role, secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "rejected request with bad gate secret",
					"role", role,
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"missing or invalid gate secret"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
