package tally

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// counterKey holds the shared running total so multiple scanner instances
// see one number.
const counterKey = "gatecheck:attended_total"

// Redis backs the tally with a shared Redis counter.
type Redis struct {
	client redis.Cmdable
	logger *slog.Logger
}

// NewRedis creates a Redis-backed tally.
func NewRedis(client redis.Cmdable, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (t *Redis) Increment(ctx context.Context) {
	if err := t.client.Incr(ctx, counterKey).Err(); err != nil {
		// Best-effort by contract; the snapshot remains authoritative.
		t.logger.WarnContext(ctx, "tally increment failed", "error", err)
	}
}

func (t *Redis) Total(ctx context.Context) (int64, error) {
	n, err := t.client.Get(ctx, counterKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// Reset overwrites the counter, used at boot to seed from store counts.
func (t *Redis) Reset(ctx context.Context, total int64) error {
	return t.client.Set(ctx, counterKey, total, 0).Err()
}
