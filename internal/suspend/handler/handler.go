package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gatecheck/internal/suspend/service"
	derrors "gatecheck/pkg/domain-errors"
	"gatecheck/pkg/platform/httputil"
	"gatecheck/pkg/requestcontext"
)

// Service defines the interface for suspension operations.
type Service interface {
	Suspend(ctx context.Context, raw, reason string) service.Result
}

// Handler wires the suspension endpoint to the suspension service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a suspension handler with its dependencies.
func New(s Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts the suspension endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/scan/suspend", h.HandleSuspend)
}

// SuspendRequest is the HTTP request body for POST /scan/suspend.
type SuspendRequest struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Validate normalizes the request; reason is optional and defaulted by the
// service.
func (r *SuspendRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return derrors.New(derrors.CodeValidation, "code is required")
	}
	if len(r.Code) > 64 {
		return derrors.New(derrors.CodeValidation, "code must be at most 64 characters")
	}
	if len(r.Reason) > 500 {
		return derrors.New(derrors.CodeValidation, "reason must be at most 500 characters")
	}
	return nil
}

// SuspendResponse is the HTTP response for POST /scan/suspend.
type SuspendResponse struct {
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	Message       string     `json:"message"`
	ScannedCode   string     `json:"scanned_code"`
	FullName      string     `json:"full_name,omitempty"`
	Block         string     `json:"block,omitempty"`
	SuspendReason string     `json:"suspend_reason,omitempty"`
	EnteredAt     *time.Time `json:"entered_at,omitempty"`
}

// HandleSuspend handles POST /scan/suspend requests. Denials are normal
// terminal outcomes and return 200 with a result body.
func (h *Handler) HandleSuspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SuspendRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	res := h.service.Suspend(ctx, req.Code, req.Reason)

	h.logger.InfoContext(ctx, "suspension scan processed",
		"request_id", requestID,
		"status", res.Status,
		"reason", res.Reason,
	)

	out := &SuspendResponse{
		Status:        string(res.Status),
		Reason:        string(res.Reason),
		Message:       res.Message,
		ScannedCode:   res.ScannedCode,
		Block:         res.PartitionLabel,
		SuspendReason: res.SuspendReason,
	}
	if res.Record != nil {
		out.FullName = res.Record.FullName
		out.EnteredAt = res.Record.EnteredAt
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
