// Package sequence issues the human-readable codes stamped on records, such as
// ITEM-... item codes and GRN-... receipt numbers.
package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Timestamp builds codes of the form PREFIX-<unix millis>-<9 random chars>.
type Timestamp struct {
	now func() time.Time
}

func NewTimestamp(now func() time.Time) *Timestamp {
	if now == nil {
		now = time.Now
	}
	return &Timestamp{now: now}
}

func (t *Timestamp) Next(_ context.Context, prefix string) (string, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, t.now().UnixMilli(), suffix), nil
}

const keyPrefix = "seq:"

// Redis builds gap-free codes PREFIX-000001, PREFIX-000002, ... from a Redis counter
// per prefix.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Next(ctx context.Context, prefix string) (string, error) {
	n, err := r.rdb.Incr(ctx, keyPrefix+prefix).Result()
	if err != nil {
		return "", fmt.Errorf("sequence: incr %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}
