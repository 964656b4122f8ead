// Package service implements the suspension engine: revoke a pass for the
// remainder of the event and log the incident.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"

	"gatecheck/internal/registry/models"
	"gatecheck/internal/resolver"
	"gatecheck/internal/sheetsync"
	suspendmetrics "gatecheck/internal/suspend/metrics"
	"gatecheck/pkg/platform/sentinel"
	"gatecheck/pkg/requestcontext"
)

var tracer = otel.Tracer("gatecheck/suspend")

// DefaultReason is recorded when the operator supplies none.
const DefaultReason = "Observer Report"

// Status is the terminal state of one suspension attempt.
type Status string

const (
	StatusSuspended Status = "suspended"
	StatusDenied    Status = "denied"
)

// DenyReason distinguishes suspension denial outcomes.
type DenyReason string

const (
	ReasonNotFound         DenyReason = "not_found"
	ReasonLookupError      DenyReason = "lookup_error"
	ReasonAlreadySuspended DenyReason = "already_suspended"
	ReasonUpdateFailed     DenyReason = "update_failed"
)

// Result is the outcome of one suspension attempt.
type Result struct {
	Status         Status
	Reason         DenyReason
	Message        string
	ScannedCode    string
	Record         *models.Record
	PartitionLabel string
	SuspendReason  string
}

// CredentialResolver is the resolution dependency (see internal/resolver).
type CredentialResolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.Match, error)
}

// Service orchestrates the suspend-pass policy.
type Service struct {
	resolver CredentialResolver
	sink     sheetsync.Sink
	logger   *slog.Logger
	metrics  *suspendmetrics.Metrics
}

// New constructs the suspension service. metrics may be nil in tests.
func New(res CredentialResolver, sink sheetsync.Sink, logger *slog.Logger, m *suspendmetrics.Metrics) *Service {
	return &Service{resolver: res, sink: sink, logger: logger, metrics: m}
}

// Suspend revokes the credential's validity. Unlike check-in this fails
// CLOSED: a mutation failure denies the suspension, because reporting a pass
// suspended when it is not would be the dangerous direction here. Already
// suspended passes are rejected idempotently without mutation.
func (s *Service) Suspend(ctx context.Context, raw, reason string) Result {
	ctx, span := tracer.Start(ctx, "suspend.Suspend")
	defer span.End()

	code := strings.TrimSpace(raw)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultReason
	}

	match, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return s.deny(ReasonLookupError, code, "Connection error, try again")
		}
		return s.deny(ReasonNotFound, code, "Pass Not Found")
	}

	rec := match.Record
	if rec.Suspended {
		return s.deny(ReasonAlreadySuspended, code, "ERROR: PASS IS ALREADY SUSPENDED")
	}

	applied, err := match.Store.SuspendPass(ctx, code)
	if err != nil {
		s.logger.ErrorContext(ctx, "suspension update failed",
			"partition", match.Partition.Name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return s.deny(ReasonUpdateFailed, code, "Failed to update database")
	}
	if !applied {
		return s.deny(ReasonAlreadySuspended, code, "ERROR: PASS IS ALREADY SUSPENDED")
	}

	rec.Suspended = true
	now := requestcontext.Now(ctx)
	s.sink.Publish(sheetsync.Event{
		Type:         sheetsync.TypeSuspension,
		ID:           rec.ID,
		FullName:     rec.FullName,
		KeyCode:      rec.KeyCode,
		Contact:      rec.Contact,
		BlockLabel:   match.Partition.Label(),
		EnteredAtIST: sheetsync.FormatIST(now),
		Reason:       reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementSuspended()
	}
	s.logger.InfoContext(ctx, "pass suspended",
		"partition", match.Partition.Name,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	return Result{
		Status:         StatusSuspended,
		Message:        "PASS HAS BEEN SUSPENDED",
		ScannedCode:    code,
		Record:         &rec,
		PartitionLabel: match.Partition.Label(),
		SuspendReason:  reason,
	}
}

func (s *Service) deny(reason DenyReason, code, message string) Result {
	if s.metrics != nil {
		s.metrics.IncrementDenied(string(reason))
	}
	return Result{
		Status:      StatusDenied,
		Reason:      reason,
		Message:     message,
		ScannedCode: code,
	}
}
