// Package memory provides the in-memory partition store used in development
// and unit tests. It honors the same contract as the Postgres store,
// including the contact-column schema variance.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
	"gatecheck/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded partition store. Conditional updates hold the
// lock across the check and the write, which is what gives the exactly-once
// transition under concurrent scans.
type InMemory struct {
	mu           sync.RWMutex
	partition    models.Partition
	contactField store.ContactField
	records      map[string]*models.Record
}

// Option configures an InMemory store.
type Option func(*InMemory)

// WithContactField declares which contact column this partition's schema
// carries. Lookups projecting the other column get sentinel.ErrNoField,
// mirroring the real schema variance.
func WithContactField(f store.ContactField) Option {
	return func(s *InMemory) { s.contactField = f }
}

// NewInMemory creates an empty in-memory store for one partition.
func NewInMemory(partition models.Partition, opts ...Option) *InMemory {
	s := &InMemory{
		partition:    partition,
		contactField: store.ContactMobile,
		records:      make(map[string]*models.Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed provisions records into the partition. Provisioning is out of band in
// production; this exists for development seeding and tests.
func (s *InMemory) Seed(records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		rec := r
		s.records[strings.ToLower(rec.KeyCode)] = &rec
	}
}

func (s *InMemory) Lookup(_ context.Context, key string, contact store.ContactField) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if contact != s.contactField {
		return nil, sentinel.ErrNoField
	}
	rec, ok := s.records[strings.ToLower(key)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *InMemory) MarkAttended(_ context.Context, key string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[strings.ToLower(key)]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if rec.Attended {
		return false, nil
	}
	rec.Attended = true
	entered := at
	rec.EnteredAt = &entered
	return true, nil
}

func (s *InMemory) SuspendPass(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[strings.ToLower(key)]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if rec.Suspended {
		return false, nil
	}
	rec.Suspended = true
	return true, nil
}

func (s *InMemory) ListAttended(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, 0)
	for _, rec := range s.records {
		if rec.Attended {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *InMemory) CountAttended(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.records {
		if rec.Attended {
			count++
		}
	}
	return count, nil
}
