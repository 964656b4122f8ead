package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireSecret(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := RequireSecret("operator", "right-secret", logger)(next)

	t.Run("matching secret passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/scan/check-in", nil)
		req.Header.Set(SecretHeader, "right-secret")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/scan/check-in", nil)
		req.Header.Set(SecretHeader, "wrong-secret")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.JSONEq(t, `{"error":"unauthorized","error_description":"missing or invalid gate secret"}`, w.Body.String())
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/scan/check-in", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
