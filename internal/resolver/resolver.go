// Package resolver turns raw scanned text into a credential record by probing
// the partition set in its declared order. Resolution is read-only.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gatecheck/internal/registry"
	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
	"gatecheck/pkg/platform/sentinel"
	"gatecheck/pkg/requestcontext"
)

var tracer = otel.Tracer("gatecheck/resolver")

// Match is a successful resolution: the record plus the partition that owns
// it and the store capability for follow-up mutations.
type Match struct {
	Record    models.Record
	Partition models.Partition
	Store     store.PartitionStore
}

// Resolver probes partitions in order, first hit wins. When the same code is
// provisioned into two partitions the earlier-ordered partition always wins;
// that is the documented tie-break, not an error.
type Resolver struct {
	set    *registry.Set
	logger *slog.Logger
}

// New constructs a resolver over the partition set.
func New(set *registry.Set, logger *slog.Logger) *Resolver {
	return &Resolver{set: set, logger: logger}
}

// Resolve trims the raw text and looks it up case-insensitively.
//
// Returns sentinel.ErrNotFound when no reachable partition holds the code and
// sentinel.ErrUnavailable when every partition lookup failed, so callers can
// tell "pass invalid" from "system is broken". A lookup error on one
// partition is logged and resolution proceeds to the next.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Match, error) {
	ctx, span := tracer.Start(ctx, "resolver.Resolve")
	defer span.End()

	key := strings.TrimSpace(raw)
	if key == "" {
		return nil, sentinel.ErrNotFound
	}

	failed := 0
	for _, entry := range r.set.Entries() {
		rec, err := r.lookup(ctx, entry, key)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			failed++
			r.logger.WarnContext(ctx, "partition lookup failed",
				"partition", entry.Partition.Name,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			continue
		}
		span.SetAttributes(attribute.String("partition", entry.Partition.Name))
		return &Match{Record: *rec, Partition: entry.Partition, Store: entry.Store}, nil
	}

	if failed == r.set.Len() && failed > 0 {
		return nil, sentinel.ErrUnavailable
	}
	return nil, sentinel.ErrNotFound
}

// lookup probes one partition, retrying once with the alternate contact
// projection when the partition's schema lacks the default column.
func (r *Resolver) lookup(ctx context.Context, entry registry.Entry, key string) (*models.Record, error) {
	rec, err := entry.Store.Lookup(ctx, key, store.ContactMobile)
	if errors.Is(err, sentinel.ErrNoField) {
		rec, err = entry.Store.Lookup(ctx, key, store.ContactPhone)
	}
	return rec, err
}
