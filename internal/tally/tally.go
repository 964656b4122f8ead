// Package tally keeps the best-effort running total of check-ins. It is
// client-side convenience state for operators, not authoritative; the
// aggregation snapshot is the source of truth.
package tally

import (
	"context"
	"sync/atomic"
)

// Tally is the running total counter. Increment is best-effort: failures are
// absorbed by implementations, never returned to the scan path.
type Tally interface {
	Increment(ctx context.Context)
	Total(ctx context.Context) (int64, error)
	Reset(ctx context.Context, total int64) error
}

// InMemory counts in-process. Used when Redis is not configured and in tests.
type InMemory struct {
	total atomic.Int64
}

// NewInMemory creates a zeroed in-process tally.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (t *InMemory) Increment(context.Context) {
	t.total.Add(1)
}

func (t *InMemory) Total(context.Context) (int64, error) {
	return t.total.Load(), nil
}

func (t *InMemory) Reset(_ context.Context, total int64) error {
	t.total.Store(total)
	return nil
}
