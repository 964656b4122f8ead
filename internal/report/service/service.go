// Package service implements the aggregation pipeline: scan all partitions
// for attended records and derive the dashboard snapshot.
package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gatecheck/internal/registry"
	reportmetrics "gatecheck/internal/report/metrics"
	"gatecheck/internal/sheetsync"
	"gatecheck/pkg/requestcontext"
)

// LogEntry is one row of the live entry log, annotated with its source
// partition's display label.
type LogEntry struct {
	FullName       string     `json:"full_name"`
	VIP            bool       `json:"vip"`
	PartitionLabel string     `json:"block"`
	EnteredAt      *time.Time `json:"entered_at"`
}

// Snapshot is the derived, ephemeral dashboard aggregate. It is recomputed
// wholesale on every poll and has no persisted identity.
type Snapshot struct {
	TotalAttended      int        `json:"total_attended"`
	VIPCount           int        `json:"vip_count"`
	NonVIPCount        int        `json:"non_vip_count"`
	AttendedToday      int        `json:"attended_today"`
	RecentLog          []LogEntry `json:"recent_log"`
	DegradedPartitions []string   `json:"degraded_partitions,omitempty"`
	GeneratedAt        time.Time  `json:"generated_at"`
}

// Service computes aggregate snapshots over the partition set.
type Service struct {
	set          *registry.Set
	logger       *slog.Logger
	metrics      *reportmetrics.Metrics
	recentLogMax int
}

// New constructs the aggregation service. metrics may be nil in tests.
func New(set *registry.Set, logger *slog.Logger, m *reportmetrics.Metrics, recentLogMax int) *Service {
	if recentLogMax <= 0 {
		recentLogMax = 50
	}
	return &Service{set: set, logger: logger, metrics: m, recentLogMax: recentLogMax}
}

// Snapshot fetches attended records from every partition concurrently and
// derives counts and the recency-ordered log. A failing partition degrades
// the snapshot (its rows are absent, and it is named in DegradedPartitions)
// rather than aborting the computation. The result is eventually consistent
// with the engines' writes, bounded by the poll interval.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)
	todayStart := dayStartIST(now)

	var (
		mu       sync.Mutex
		snap     = &Snapshot{GeneratedAt: now}
		allLog   []LogEntry
		degraded []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range s.set.Entries() {
		entry := entry
		g.Go(func() error {
			records, err := entry.Store.ListAttended(gctx)
			if err != nil {
				s.logger.WarnContext(gctx, "partition fetch failed, degrading snapshot",
					"partition", entry.Partition.Name,
					"error", err,
				)
				if s.metrics != nil {
					s.metrics.IncrementPartitionFailure()
				}
				mu.Lock()
				degraded = append(degraded, entry.Partition.Name)
				mu.Unlock()
				return nil
			}

			label := entry.Partition.Label()
			mu.Lock()
			defer mu.Unlock()
			for _, rec := range records {
				snap.TotalAttended++
				vip := rec.VIP || entry.Partition.VIP
				if vip {
					snap.VIPCount++
				} else {
					snap.NonVIPCount++
				}
				if rec.EnteredAt != nil {
					if !rec.EnteredAt.In(sheetsync.IST()).Before(todayStart) {
						snap.AttendedToday++
					}
					allLog = append(allLog, LogEntry{
						FullName:       rec.FullName,
						VIP:            vip,
						PartitionLabel: label,
						EnteredAt:      rec.EnteredAt,
					})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(allLog, func(i, j int) bool {
		return allLog[i].EnteredAt.After(*allLog[j].EnteredAt)
	})
	if len(allLog) > s.recentLogMax {
		allLog = allLog[:s.recentLogMax]
	}
	snap.RecentLog = allLog
	sort.Strings(degraded)
	snap.DegradedPartitions = degraded

	if s.metrics != nil {
		s.metrics.ObserveSnapshot(start)
		s.metrics.SetTotalAttended(snap.TotalAttended)
	}
	return snap, nil
}

// dayStartIST returns midnight of now's calendar day in the fixed reference
// timezone, so "today" means the same thing on every scanner device.
func dayStartIST(now time.Time) time.Time {
	local := now.In(sheetsync.IST())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, sheetsync.IST())
}
