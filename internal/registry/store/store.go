// Package store defines the per-partition capability interface consumed by
// the resolver and the engines. Each partition behaves as an independently
// locked row store; there are no cross-partition transactions.
package store

import (
	"context"
	"time"

	"gatecheck/internal/registry/models"
)

// ContactField selects which column the contact projection reads. Partition
// schemas disagree on the column name; stores report sentinel.ErrNoField when
// the requested column does not exist so callers can retry the alternate.
type ContactField string

const (
	ContactMobile ContactField = "mobile_number"
	ContactPhone  ContactField = "phone"
)

// PartitionStore is the capability set one partition exposes.
//
// Lookup matches the key case-insensitively and returns sentinel.ErrNotFound
// when no row matches, sentinel.ErrNoField when the contact projection names
// a missing column, and a wrapped transport error otherwise.
//
// MarkAttended and SuspendPass are conditional single-row updates scoped by
// the same case-insensitive key match: they apply only when the flag is still
// false and report whether a row transitioned. This is what makes the
// check-in exactly-once under concurrent scans.
type PartitionStore interface {
	Lookup(ctx context.Context, key string, contact ContactField) (*models.Record, error)
	MarkAttended(ctx context.Context, key string, at time.Time) (bool, error)
	SuspendPass(ctx context.Context, key string) (bool, error)
	ListAttended(ctx context.Context) ([]models.Record, error)
	CountAttended(ctx context.Context) (int, error)
}
