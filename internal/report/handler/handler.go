package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatecheck/internal/report/service"
	derrors "gatecheck/pkg/domain-errors"
	"gatecheck/pkg/platform/httputil"
	"gatecheck/pkg/requestcontext"
)

// SnapshotSource serves cached snapshots and on-demand recomputation.
type SnapshotSource interface {
	Latest() *service.Snapshot
	Refresh(ctx context.Context) (*service.Snapshot, error)
}

// Handler wires the observer dashboard endpoint to the poller.
type Handler struct {
	source SnapshotSource
	logger *slog.Logger
}

// New constructs a dashboard handler.
func New(source SnapshotSource, logger *slog.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// Register mounts the dashboard endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/snapshot", h.HandleSnapshot)
}

// HandleSnapshot handles GET /dashboard/snapshot. The cached snapshot is
// served by default; ?refresh=1 forces a synchronous recomputation.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("refresh") == "1" {
		snap, err := h.source.Refresh(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "snapshot refresh failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, derrors.Wrap(err, derrors.CodeUnavailable, "snapshot unavailable"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, snap)
		return
	}

	snap := h.source.Latest()
	if snap == nil {
		httputil.WriteError(w, derrors.New(derrors.CodeUnavailable, "snapshot not ready yet"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}
