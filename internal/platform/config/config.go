package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates all runtime configuration so main stays lean.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Sink      Sink
	Aggregate Aggregate
	Gate      Gate
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Postgres captures the partition store connection. Empty DSN means the
// in-memory store is used (development and tests).
type Postgres struct {
	DSN          string
	MaxOpenConns int
}

// Redis captures the live tally backend. Empty URL disables Redis and the
// tally falls back to process-local counting.
type Redis struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Sink captures the sheet webhook forwarder. Empty URL disables publishing.
type Sink struct {
	URL        string
	Buffer     int
	Timeout    time.Duration
	DrainGrace time.Duration
}

// Aggregate captures the dashboard poller.
type Aggregate struct {
	PollInterval time.Duration
	RecentLogMax int
}

// Gate holds the static shared secrets for the two privilege levels.
// Real authentication is out of scope; these only gate the HTTP surface.
type Gate struct {
	OperatorSecret string
	ObserverSecret string
}

// FromEnv builds a Config from environment variables with development
// defaults, matching the rest of the platform packages.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("GATECHECK_ADDR", ":8080"),
			ShutdownTimeout: envDuration("GATECHECK_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			DSN:          os.Getenv("GATECHECK_POSTGRES_DSN"),
			MaxOpenConns: envInt("GATECHECK_POSTGRES_MAX_CONNS", 10),
		},
		Redis: Redis{
			URL:          os.Getenv("GATECHECK_REDIS_URL"),
			PoolSize:     envInt("GATECHECK_REDIS_POOL_SIZE", 10),
			DialTimeout:  envDuration("GATECHECK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("GATECHECK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("GATECHECK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Sink: Sink{
			URL:        os.Getenv("GATECHECK_SHEET_WEBHOOK_URL"),
			Buffer:     envInt("GATECHECK_SHEET_BUFFER", 256),
			Timeout:    envDuration("GATECHECK_SHEET_TIMEOUT", 10*time.Second),
			DrainGrace: envDuration("GATECHECK_SHEET_DRAIN_GRACE", 5*time.Second),
		},
		Aggregate: Aggregate{
			PollInterval: envDuration("GATECHECK_POLL_INTERVAL", 10*time.Second),
			RecentLogMax: envInt("GATECHECK_RECENT_LOG_MAX", 50),
		},
		Gate: Gate{
			OperatorSecret: envOr("GATECHECK_OPERATOR_SECRET", "dev-operator-secret"),
			ObserverSecret: envOr("GATECHECK_OBSERVER_SECRET", "dev-observer-secret"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
