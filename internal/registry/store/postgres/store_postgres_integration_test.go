//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
	"gatecheck/pkg/platform/sentinel"
	"gatecheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg       *containers.PostgresContainer
	students *PostgresStore
	faculty  *PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())

	// Two partition schemas with the real contact-column variance: students
	// carry mobile_number, faculty carry phone.
	s.pg.Exec(s.T(),
		`CREATE TABLE ggu_students (
			id            TEXT PRIMARY KEY,
			full_name     TEXT NOT NULL,
			pin_number    TEXT NOT NULL,
			mobile_number TEXT,
			is_vip        BOOLEAN NOT NULL DEFAULT FALSE,
			attended      BOOLEAN NOT NULL DEFAULT FALSE,
			entered_at    TIMESTAMPTZ,
			is_suspended  BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE maitri_faculty_registrations (
			id           TEXT PRIMARY KEY,
			full_name    TEXT NOT NULL,
			fac_code     TEXT NOT NULL,
			phone        TEXT,
			is_vip       BOOLEAN NOT NULL DEFAULT FALSE,
			attended     BOOLEAN NOT NULL DEFAULT FALSE,
			entered_at   TIMESTAMPTZ,
			is_suspended BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	)

	s.students = NewPostgres(s.pg.DB, models.Partition{Name: "ggu_students", KeyField: "pin_number"})
	s.faculty = NewPostgres(s.pg.DB, models.Partition{Name: "maitri_faculty_registrations", KeyField: "fac_code"})
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "ggu_students", "maitri_faculty_registrations"))
	s.pg.Exec(s.T(),
		`INSERT INTO ggu_students (id, full_name, pin_number, mobile_number, is_vip)
		 VALUES ('s1', 'Asha Rao', 'PIN-100', '9000000001', FALSE),
		        ('s2', 'Vikram Das', 'PIN-200', '9000000002', TRUE)`,
		`INSERT INTO maitri_faculty_registrations (id, full_name, fac_code, phone)
		 VALUES ('f1', 'Prof Iyer', 'FAC-100', '9000000003')`,
	)
}

func (s *PostgresStoreSuite) TestLookup() {
	s.Run("case-insensitive key match", func() {
		rec, err := s.students.Lookup(s.ctx, "pin-100", store.ContactMobile)
		s.Require().NoError(err)
		s.Equal("Asha Rao", rec.FullName)
		s.Equal("PIN-100", rec.KeyCode)
		s.Equal("9000000001", rec.Contact)
		s.False(rec.Attended)
	})

	s.Run("unknown key is ErrNotFound", func() {
		_, err := s.students.Lookup(s.ctx, "PIN-999", store.ContactMobile)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("missing contact column surfaces as ErrNoField", func() {
		_, err := s.faculty.Lookup(s.ctx, "FAC-100", store.ContactMobile)
		s.Require().ErrorIs(err, sentinel.ErrNoField)

		rec, err := s.faculty.Lookup(s.ctx, "FAC-100", store.ContactPhone)
		s.Require().NoError(err)
		s.Equal("Prof Iyer", rec.FullName)
	})
}

func (s *PostgresStoreSuite) TestMarkAttended() {
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Run("applies once and stamps entered_at", func() {
		applied, err := s.students.MarkAttended(s.ctx, "PIN-100", now)
		s.Require().NoError(err)
		s.True(applied)

		rec, err := s.students.Lookup(s.ctx, "PIN-100", store.ContactMobile)
		s.Require().NoError(err)
		s.True(rec.Attended)
		s.Require().NotNil(rec.EnteredAt)
		s.True(rec.EnteredAt.Equal(now))

		applied, err = s.students.MarkAttended(s.ctx, "PIN-100", now.Add(time.Hour))
		s.Require().NoError(err)
		s.False(applied)
	})

	s.Run("unknown key applies nothing without error", func() {
		applied, err := s.students.MarkAttended(s.ctx, "PIN-999", now)
		s.Require().NoError(err)
		s.False(applied)
	})
}

// TestConcurrentMarkAttended drives the double-scan race against the real
// database: many workers, one row, exactly one applied transition.
func (s *PostgresStoreSuite) TestConcurrentMarkAttended() {
	const workers = 16
	now := time.Now().UTC()

	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := s.students.MarkAttended(s.ctx, "PIN-200", now)
			s.NoError(err)
			results <- applied
		}()
	}
	wg.Wait()
	close(results)

	appliedCount := 0
	for applied := range results {
		if applied {
			appliedCount++
		}
	}
	s.Equal(1, appliedCount)

	count, err := s.students.CountAttended(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestSuspendPass() {
	applied, err := s.students.SuspendPass(s.ctx, "pin-100")
	s.Require().NoError(err)
	s.True(applied)

	rec, err := s.students.Lookup(s.ctx, "PIN-100", store.ContactMobile)
	s.Require().NoError(err)
	s.True(rec.Suspended)

	applied, err = s.students.SuspendPass(s.ctx, "PIN-100")
	s.Require().NoError(err)
	s.False(applied)
}

func (s *PostgresStoreSuite) TestAttendedProjections() {
	now := time.Now().UTC()

	count, err := s.students.CountAttended(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	_, err = s.students.MarkAttended(s.ctx, "PIN-100", now)
	s.Require().NoError(err)
	_, err = s.students.MarkAttended(s.ctx, "PIN-200", now.Add(time.Minute))
	s.Require().NoError(err)

	records, err := s.students.ListAttended(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 2)
	for _, rec := range records {
		s.True(rec.Attended)
		s.NotNil(rec.EnteredAt)
	}

	count, err = s.students.CountAttended(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
