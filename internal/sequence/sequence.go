// Package sequence issues the daily receipt numbers handed out when an
// invoice reaches Ready To Payment. The counter is a per-day atomic Redis
// INCR, so concurrent approvals on the same day cannot collide.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
)

// ReceiptPrefix is the fixed prefix on every generated receipt number.
const ReceiptPrefix = "SANOH"

const counterTTL = 48 * time.Hour

var Module = fx.Module("sequence",
	fx.Provide(NewRedisClient),
	fx.Provide(NewRedisCounter),
)

// ReceiptCounter returns the next per-day sequence value, starting at 1.
type ReceiptCounter interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

func NewRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) ReceiptCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Next(ctx context.Context, day time.Time) (int64, error) {
	if c == nil || c.client == nil {
		return 0, errors.New("receipt counter client not configured")
	}

	key := fmt.Sprintf("receipt_seq:%s", day.UTC().Format("20060102"))
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// The key only matters for one day; keep it around long enough to
	// survive clock skew between app instances.
	c.client.Expire(ctx, key, counterTTL)
	return n, nil
}

// FormatReceiptNumber renders `<prefix><YYYYMMDD>/<n>`.
func FormatReceiptNumber(prefix string, day time.Time, n int64) string {
	return fmt.Sprintf("%s%s/%d", prefix, day.UTC().Format("20060102"), n)
}
