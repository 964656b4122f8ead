package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	_ "github.com/jackc/pgx/v5/stdlib"

	checkinhandler "gatecheck/internal/checkin/handler"
	checkinmetrics "gatecheck/internal/checkin/metrics"
	checkinservice "gatecheck/internal/checkin/service"
	"gatecheck/internal/platform/config"
	"gatecheck/internal/platform/httpserver"
	"gatecheck/internal/platform/logger"
	platformredis "gatecheck/internal/platform/redis"
	"gatecheck/internal/registry"
	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
	memorystore "gatecheck/internal/registry/store/memory"
	postgresstore "gatecheck/internal/registry/store/postgres"
	"gatecheck/internal/report"
	reporthandler "gatecheck/internal/report/handler"
	reportmetrics "gatecheck/internal/report/metrics"
	reportservice "gatecheck/internal/report/service"
	"gatecheck/internal/resolver"
	"gatecheck/internal/sheetsync"
	suspendhandler "gatecheck/internal/suspend/handler"
	suspendmetrics "gatecheck/internal/suspend/metrics"
	suspendservice "gatecheck/internal/suspend/service"
	"gatecheck/internal/tally"
	httptransport "gatecheck/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Partition stores: Postgres when configured, in-memory otherwise.
	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.Postgres.DSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		log.Warn("no postgres DSN configured, using in-memory partition stores")
	}

	set := registry.Build(models.DefaultPartitions(), func(p models.Partition) store.PartitionStore {
		if db != nil {
			return postgresstore.NewPostgres(db, p)
		}
		mem := memorystore.NewInMemory(p)
		if os.Getenv("GATECHECK_DEV_SEED") == "true" {
			mem.Seed(memorystore.DevRoster(p)...)
		}
		return mem
	})

	// Live running total: shared Redis counter when configured.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	var counter tally.Tally
	if redisClient != nil {
		defer redisClient.Close()
		counter = tally.NewRedis(redisClient, log)
	} else {
		counter = tally.NewInMemory()
	}
	seedTally(ctx, set, counter, log)

	// Sheet sync: fire-and-forget, disabled without a URL.
	var sink sheetsync.Sink = sheetsync.NoopSink{}
	if cfg.Sink.URL != "" {
		publisher := sheetsync.NewPublisher(
			sheetsync.NewWebhookSender(cfg.Sink.URL, cfg.Sink.Timeout),
			log, cfg.Sink.Buffer, cfg.Sink.DrainGrace,
		)
		defer publisher.Close()
		sink = publisher
	}

	res := resolver.New(set, log)
	checkinSvc := checkinservice.New(res, counter, sink, log, checkinmetrics.New())
	suspendSvc := suspendservice.New(res, sink, log, suspendmetrics.New())
	reportSvc := reportservice.New(set, log, reportmetrics.New(), cfg.Aggregate.RecentLogMax)

	poller := report.NewPoller(reportSvc, cfg.Aggregate.PollInterval, log)
	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("poller stopped", "error", err)
		}
	}()

	router := httptransport.NewRouter(httptransport.Deps{
		Gate:    cfg.Gate,
		Logger:  log,
		CheckIn: checkinhandler.New(checkinSvc, log),
		Suspend: suspendhandler.New(suspendSvc, log),
		Report:  reporthandler.New(poller, log),
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting gatecheck", "addr", cfg.Server.Addr, "partitions", set.Len())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// seedTally initializes the running total from authoritative store counts so
// a restarted scanner does not show zero mid-event. Best effort.
func seedTally(ctx context.Context, set *registry.Set, counter tally.Tally, log *slog.Logger) {
	total := 0
	for _, entry := range set.Entries() {
		n, err := entry.Store.CountAttended(ctx)
		if err != nil {
			log.Warn("tally seed skipped, count failed",
				"partition", entry.Partition.Name,
				"error", err,
			)
			return
		}
		total += n
	}
	if err := counter.Reset(ctx, int64(total)); err != nil {
		log.Warn("tally seed failed", "error", err)
	}
}
