package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"gatecheck/internal/checkin/service"
	"gatecheck/internal/registry/models"
)

// stubService returns a canned result and records the code it was given.
type stubService struct {
	result   service.Result
	lastCode string
}

func (s *stubService) CheckIn(_ context.Context, raw string) service.Result {
	s.lastCode = raw
	return s.result
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCheckIn(t *testing.T) {
	t.Run("grant returns 200 with the result body", func(t *testing.T) {
		enteredAt := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
		svc := &stubService{result: service.Result{
			Status:         service.StatusGranted,
			Message:        "ENTRY GRANTED",
			ScannedCode:    "PIN-100",
			Record:         &models.Record{FullName: "Asha Rao"},
			PartitionLabel: "GGU COLLEGE",
			VIP:            true,
			EnteredAt:      &enteredAt,
			RunningTotal:   12,
		}}
		w := postJSON(t, newTestRouter(svc), "/scan/check-in", `{"code":"PIN-100"}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "PIN-100", svc.lastCode)

		var body ScanResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "granted", body.Status)
		require.Equal(t, "ENTRY GRANTED", body.Message)
		require.Equal(t, "Asha Rao", body.FullName)
		require.Equal(t, "GGU COLLEGE", body.Block)
		require.True(t, body.VIP)
		require.Equal(t, int64(12), body.RunningTotal)
	})

	t.Run("denial is still a 200, not an error status", func(t *testing.T) {
		svc := &stubService{result: service.Result{
			Status:      service.StatusDenied,
			Reason:      service.ReasonAlreadyAttended,
			Message:     "PASS ALREADY USED",
			ScannedCode: "PIN-100",
		}}
		w := postJSON(t, newTestRouter(svc), "/scan/check-in", `{"code":"PIN-100"}`)

		require.Equal(t, http.StatusOK, w.Code)

		var body ScanResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "denied", body.Status)
		require.Equal(t, "already_attended", body.Reason)
	})

	t.Run("empty code is rejected before the service runs", func(t *testing.T) {
		svc := &stubService{}
		w := postJSON(t, newTestRouter(svc), "/scan/check-in", `{"code":"   "}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Empty(t, svc.lastCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "validation_error", body["error"])
	})

	t.Run("oversized code is rejected", func(t *testing.T) {
		svc := &stubService{}
		long := strings.Repeat("x", 65)
		w := postJSON(t, newTestRouter(svc), "/scan/check-in", `{"code":"`+long+`"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		svc := &stubService{}
		w := postJSON(t, newTestRouter(svc), "/scan/check-in", `{"code":`)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "bad_request", body["error"])
	})
}
