package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatecheck/internal/registry"
	"gatecheck/internal/registry/models"
	regstore "gatecheck/internal/registry/store"
	memorystore "gatecheck/internal/registry/store/memory"
	"gatecheck/internal/resolver"
	"gatecheck/internal/sheetsync"
	"gatecheck/pkg/platform/sentinel"
)

type recordingSink struct {
	mu     sync.Mutex
	events []sheetsync.Event
}

func (s *recordingSink) Publish(event sheetsync.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []sheetsync.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheetsync.Event, len(s.events))
	copy(out, s.events)
	return out
}

type brokenWrites struct {
	*memorystore.InMemory
}

func (b brokenWrites) MarkAttended(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("write timeout")
}

func (b brokenWrites) SuspendPass(context.Context, string) (bool, error) {
	return false, errors.New("write timeout")
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (*resolver.Match, error) {
	return nil, sentinel.ErrUnavailable
}

type SuspendSuite struct {
	suite.Suite
	store *memorystore.InMemory
	sink  *recordingSink
	svc   *Service
	ctx   context.Context
}

func TestSuspendSuite(t *testing.T) {
	suite.Run(t, new(SuspendSuite))
}

func (s *SuspendSuite) SetupTest() {
	partition := models.Partition{Name: "maitri_vip_registrations", KeyField: "vip_code", DisplayLabel: "VIP GUESTS", VIP: true}
	s.store = memorystore.NewInMemory(partition)
	s.store.Seed(
		models.Record{ID: "v1", KeyCode: "VIP-01", FullName: "Chief Guest", Contact: "9000000001"},
		models.Record{ID: "v2", KeyCode: "VIP-02", FullName: "Second Guest", Suspended: true},
	)

	logger := slog.New(slog.DiscardHandler)
	set := registry.New(registry.Entry{Partition: partition, Store: s.store})
	s.sink = &recordingSink{}
	s.svc = New(resolver.New(set, logger), s.sink, logger, nil)
	s.ctx = context.Background()
}

func (s *SuspendSuite) TestSuspend() {
	s.Run("valid pass is suspended with the given reason", func() {
		res := s.svc.Suspend(s.ctx, " vip-01 ", "gate-crashing attempt")

		s.Equal(StatusSuspended, res.Status)
		s.Equal("PASS HAS BEEN SUSPENDED", res.Message)
		s.Equal("VIP GUESTS", res.PartitionLabel)
		s.Equal("gate-crashing attempt", res.SuspendReason)

		rec, err := s.store.Lookup(s.ctx, "VIP-01", regstore.ContactMobile)
		s.Require().NoError(err)
		s.True(rec.Suspended)
	})

	s.Run("suspension publishes one event carrying the reason", func() {
		events := s.sink.Events()
		s.Require().Len(events, 1)
		s.Equal(sheetsync.TypeSuspension, events[0].Type)
		s.Equal("v1", events[0].ID)
		s.Equal("gate-crashing attempt", events[0].Reason)
	})

	s.Run("repeat suspension is an idempotent denial", func() {
		res := s.svc.Suspend(s.ctx, "VIP-01", "again")

		s.Equal(StatusDenied, res.Status)
		s.Equal(ReasonAlreadySuspended, res.Reason)
		s.Equal("ERROR: PASS IS ALREADY SUSPENDED", res.Message)
		s.Len(s.sink.Events(), 1, "denial publishes nothing")
	})
}

func (s *SuspendSuite) TestDefaultReason() {
	res := s.svc.Suspend(s.ctx, "VIP-01", "   ")

	s.Equal(StatusSuspended, res.Status)
	s.Equal(DefaultReason, res.SuspendReason)

	events := s.sink.Events()
	s.Require().Len(events, 1)
	s.Equal("Observer Report", events[0].Reason)
}

func (s *SuspendSuite) TestAlreadySuspendedAtResolve() {
	res := s.svc.Suspend(s.ctx, "VIP-02", "")

	s.Equal(StatusDenied, res.Status)
	s.Equal(ReasonAlreadySuspended, res.Reason)
	s.Empty(s.sink.Events())
}

func (s *SuspendSuite) TestNotFound() {
	res := s.svc.Suspend(s.ctx, "VIP-99", "")

	s.Equal(StatusDenied, res.Status)
	s.Equal(ReasonNotFound, res.Reason)
	s.Equal("Pass Not Found", res.Message)
}

func (s *SuspendSuite) TestLookupError() {
	logger := slog.New(slog.DiscardHandler)
	svc := New(failingResolver{}, s.sink, logger, nil)

	res := svc.Suspend(s.ctx, "VIP-01", "")

	s.Equal(StatusDenied, res.Status)
	s.Equal(ReasonLookupError, res.Reason)
	s.Equal("Connection error, try again", res.Message)
}

func (s *SuspendSuite) TestFailClosed() {
	partition := models.Partition{Name: "maitri_vip_registrations", KeyField: "vip_code"}
	inner := memorystore.NewInMemory(partition)
	inner.Seed(models.Record{ID: "v1", KeyCode: "VIP-01", FullName: "Chief Guest"})

	logger := slog.New(slog.DiscardHandler)
	set := registry.New(registry.Entry{Partition: partition, Store: brokenWrites{inner}})
	sink := &recordingSink{}
	svc := New(resolver.New(set, logger), sink, logger, nil)

	res := svc.Suspend(s.ctx, "VIP-01", "incident")

	s.Equal(StatusDenied, res.Status, "a failed suspension must not be reported as success")
	s.Equal(ReasonUpdateFailed, res.Reason)
	s.Equal("Failed to update database", res.Message)
	s.Empty(sink.Events())

	rec, err := inner.Lookup(s.ctx, "VIP-01", regstore.ContactMobile)
	s.Require().NoError(err)
	s.False(rec.Suspended)
}
