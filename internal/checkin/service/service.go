// Package service implements the check-in engine: resolve the credential,
// apply the grant policy, and record attendance exactly once.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	checkinmetrics "gatecheck/internal/checkin/metrics"
	"gatecheck/internal/registry/models"
	"gatecheck/internal/resolver"
	"gatecheck/internal/sheetsync"
	"gatecheck/internal/tally"
	"gatecheck/pkg/platform/sentinel"
	"gatecheck/pkg/requestcontext"
)

var tracer = otel.Tracer("gatecheck/checkin")

// Status is the terminal state of one scan.
type Status string

const (
	StatusGranted Status = "granted"
	StatusDenied  Status = "denied"
)

// DenyReason distinguishes denial outcomes so operators can tell "pass
// invalid" from "system is broken".
type DenyReason string

const (
	ReasonNotFound        DenyReason = "not_found"
	ReasonLookupError     DenyReason = "lookup_error"
	ReasonAlreadyAttended DenyReason = "already_attended"
	ReasonSuspended       DenyReason = "suspended"
)

// Result is the outcome of one check-in scan. Denials carry the scanned code
// so the operator can read it back; grants may carry a warning when the
// attendance write failed (fail-open policy).
type Result struct {
	Status         Status
	Reason         DenyReason
	Message        string
	ScannedCode    string
	Record         *models.Record
	PartitionLabel string
	VIP            bool
	EnteredAt      *time.Time
	Warning        string
	RunningTotal   int64
}

// CredentialResolver is the resolution dependency (see internal/resolver).
type CredentialResolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.Match, error)
}

// Service orchestrates the grant-entry policy.
type Service struct {
	resolver CredentialResolver
	tally    tally.Tally
	sink     sheetsync.Sink
	logger   *slog.Logger
	metrics  *checkinmetrics.Metrics
}

// New constructs the check-in service. metrics may be nil in tests.
func New(res CredentialResolver, t tally.Tally, sink sheetsync.Sink, logger *slog.Logger, m *checkinmetrics.Metrics) *Service {
	return &Service{resolver: res, tally: t, sink: sink, logger: logger, metrics: m}
}

// CheckIn applies the grant policy for one scanned credential.
//
// The attendance mutation is an atomic conditional update (attended flips
// only when still false), so concurrent scans of the same credential produce
// exactly one grant. A mutation transport failure still grants entry with a
// warning attached: blocking a physical queue is worse than a missed log
// line. Denials never mutate persistent state.
func (s *Service) CheckIn(ctx context.Context, raw string) Result {
	ctx, span := tracer.Start(ctx, "checkin.CheckIn")
	defer span.End()
	start := time.Now()
	defer s.observeScan(start)

	code := strings.TrimSpace(raw)
	match, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		return s.denied(ctx, code, err)
	}

	rec := match.Record
	if rec.Suspended {
		return s.deny(ReasonSuspended, code, "PASS IS SUSPENDED")
	}
	if rec.Attended {
		res := s.deny(ReasonAlreadyAttended, code, "PASS ALREADY USED")
		res.EnteredAt = rec.EnteredAt
		res.Record = &rec
		res.PartitionLabel = match.Partition.Label()
		return res
	}

	now := requestcontext.Now(ctx)
	applied, err := match.Store.MarkAttended(ctx, code, now)
	if err != nil {
		// Fail open: entry is not blocked by a logging failure, but the
		// operator sees the warning. No tally increment, no sheet event.
		s.logger.ErrorContext(ctx, "attendance update failed, granting anyway",
			"partition", match.Partition.Name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		res := s.granted(ctx, match, now)
		res.Warning = "Warning: failed to log attendance"
		return res
	}
	if !applied {
		// Lost the race to a concurrent scan of the same credential.
		res := s.deny(ReasonAlreadyAttended, code, "PASS ALREADY USED")
		res.Record = &rec
		res.PartitionLabel = match.Partition.Label()
		if fresh, lookupErr := s.resolver.Resolve(ctx, code); lookupErr == nil {
			res.EnteredAt = fresh.Record.EnteredAt
		}
		return res
	}

	res := s.granted(ctx, match, now)
	s.tally.Increment(ctx)
	if total, err := s.tally.Total(ctx); err == nil {
		res.RunningTotal = total
	}
	s.sink.Publish(sheetsync.Event{
		Type:         sheetsync.TypeEntry,
		ID:           rec.ID,
		FullName:     rec.FullName,
		KeyCode:      rec.KeyCode,
		Contact:      rec.Contact,
		BlockLabel:   match.Partition.Label(),
		EnteredAtIST: sheetsync.FormatIST(now),
	})
	if s.metrics != nil {
		s.metrics.IncrementGranted()
	}
	s.logger.InfoContext(ctx, "entry granted",
		"partition", match.Partition.Name,
		"vip", res.VIP,
		"request_id", requestcontext.RequestID(ctx),
	)
	return res
}

func (s *Service) granted(_ context.Context, match *resolver.Match, enteredAt time.Time) Result {
	rec := match.Record
	rec.Attended = true
	rec.EnteredAt = &enteredAt
	return Result{
		Status:         StatusGranted,
		Message:        "ENTRY GRANTED",
		ScannedCode:    rec.KeyCode,
		Record:         &rec,
		PartitionLabel: match.Partition.Label(),
		VIP:            rec.VIP || match.Partition.VIP,
		EnteredAt:      &enteredAt,
	}
}

func (s *Service) denied(ctx context.Context, code string, err error) Result {
	if errors.Is(err, sentinel.ErrUnavailable) {
		s.logger.ErrorContext(ctx, "resolution unreachable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return s.deny(ReasonLookupError, code, "Connection error, try again")
	}
	return s.deny(ReasonNotFound, code, "Invalid Pass or Not Registered")
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

func (s *Service) observeScan(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveScan(start)
	}
}
