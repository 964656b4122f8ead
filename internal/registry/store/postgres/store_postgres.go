// Package postgres backs one partition with a PostgreSQL table. Table and
// column names come from the static partition roster, never from user input.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
	"gatecheck/pkg/platform/sentinel"
)

// pgUndefinedColumn is the PostgreSQL error code for a missing column; it is
// how the contact-column schema variance surfaces.
const pgUndefinedColumn = "42703"

// PostgresStore implements store.PartitionStore over one partition table.
type PostgresStore struct {
	db        *sql.DB
	partition models.Partition
}

// NewPostgres constructs a store for the given partition.
func NewPostgres(db *sql.DB, partition models.Partition) *PostgresStore {
	return &PostgresStore{db: db, partition: partition}
}

func (s *PostgresStore) Lookup(ctx context.Context, key string, contact store.ContactField) (*models.Record, error) {
	query := fmt.Sprintf(
		`SELECT id, full_name, %s, %s, is_vip, attended, entered_at, is_suspended
		   FROM %s
		  WHERE LOWER(%s) = LOWER($1)`,
		s.partition.KeyField, string(contact), s.partition.Name, s.partition.KeyField,
	)

	var (
		rec       models.Record
		contactNS sql.NullString
		enteredNS sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&rec.ID, &rec.FullName, &rec.KeyCode, &contactNS,
		&rec.VIP, &rec.Attended, &enteredNS, &rec.Suspended,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if isUndefinedColumn(err) {
			return nil, sentinel.ErrNoField
		}
		return nil, fmt.Errorf("lookup %s: %w", s.partition.Name, err)
	}
	if contactNS.Valid {
		rec.Contact = contactNS.String
	}
	if enteredNS.Valid {
		entered := enteredNS.Time
		rec.EnteredAt = &entered
	}
	return &rec, nil
}

// MarkAttended performs the atomic conditional transition: the row lock taken
// by UPDATE guarantees at most one caller sees attended flip false to true.
func (s *PostgresStore) MarkAttended(ctx context.Context, key string, at time.Time) (bool, error) {
	query := fmt.Sprintf(
		`UPDATE %s SET attended = TRUE, entered_at = $2
		  WHERE LOWER(%s) = LOWER($1) AND attended = FALSE`,
		s.partition.Name, s.partition.KeyField,
	)
	res, err := s.db.ExecContext(ctx, query, key, at)
	if err != nil {
		return false, fmt.Errorf("mark attended %s: %w", s.partition.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark attended %s: %w", s.partition.Name, err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) SuspendPass(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(
		`UPDATE %s SET is_suspended = TRUE
		  WHERE LOWER(%s) = LOWER($1) AND is_suspended = FALSE`,
		s.partition.Name, s.partition.KeyField,
	)
	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("suspend pass %s: %w", s.partition.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("suspend pass %s: %w", s.partition.Name, err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) ListAttended(ctx context.Context) ([]models.Record, error) {
	query := fmt.Sprintf(
		`SELECT id, full_name, %s, is_vip, entered_at, is_suspended
		   FROM %s
		  WHERE attended = TRUE`,
		s.partition.KeyField, s.partition.Name,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attended %s: %w", s.partition.Name, err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var (
			rec       models.Record
			enteredNS sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.FullName, &rec.KeyCode, &rec.VIP, &enteredNS, &rec.Suspended); err != nil {
			return nil, fmt.Errorf("list attended %s: %w", s.partition.Name, err)
		}
		rec.Attended = true
		if enteredNS.Valid {
			entered := enteredNS.Time
			rec.EnteredAt = &entered
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attended %s: %w", s.partition.Name, err)
	}
	return out, nil
}

func (s *PostgresStore) CountAttended(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE attended = TRUE`, s.partition.Name)
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attended %s: %w", s.partition.Name, err)
	}
	return count, nil
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn
}
