package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatecheck/internal/checkin/service"
	"gatecheck/pkg/platform/httputil"
	"gatecheck/pkg/requestcontext"
)

// Service defines the interface for check-in operations.
type Service interface {
	CheckIn(ctx context.Context, raw string) service.Result
}

// Handler wires the check-in endpoint to the check-in service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a check-in handler with its dependencies.
func New(s Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts the check-in endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/scan/check-in", h.HandleCheckIn)
}

// HandleCheckIn handles POST /scan/check-in requests. Denials are normal
// terminal outcomes for the operator UI, so they return 200 with a result
// body rather than an error status.
func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ScanRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	res := h.service.CheckIn(ctx, req.Code)

	h.logger.InfoContext(ctx, "check-in scan processed",
		"request_id", requestID,
		"status", res.Status,
		"reason", res.Reason,
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(res))
}
