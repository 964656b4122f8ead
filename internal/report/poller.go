// Package report exposes the dashboard aggregate: a timer-driven poller over
// the aggregation service plus the observer-facing handler.
package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gatecheck/internal/report/service"
)

// SnapshotService computes one aggregate snapshot.
type SnapshotService interface {
	Snapshot(ctx context.Context) (*service.Snapshot, error)
}

// Poller recomputes the snapshot on a fixed interval and serves the last
// good one. It is an explicit task whose lifetime is tied to the context it
// is run with, not a free-running global timer.
type Poller struct {
	service  SnapshotService
	interval time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	latest *service.Snapshot
}

// NewPoller constructs a poller; Run must be called to start it.
func NewPoller(svc SnapshotService, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{service: svc, interval: interval, logger: logger}
}

// Run computes an initial snapshot and then recomputes on every tick until
// the context is cancelled. A failed computation keeps the previous snapshot.
func (p *Poller) Run(ctx context.Context) error {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Latest returns the most recent good snapshot, or nil before the first
// successful computation.
func (p *Poller) Latest() *service.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Refresh recomputes synchronously, for the dashboard's manual refresh.
func (p *Poller) Refresh(ctx context.Context) (*service.Snapshot, error) {
	snap, err := p.service.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()
	return snap, nil
}

func (p *Poller) refresh(ctx context.Context) {
	if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.ErrorContext(ctx, "snapshot recomputation failed", "error", err)
	}
}
