package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"servicedesk/internal/model"
)

// maxPerDay sequence space per entity per calendar day. Exhausting it is
// fatal for entity creation and is never retried.
const maxPerDay = 9999

// Allocator mints human-readable, date-partitioned entity identifiers of the
// form PREFIX-YYYYMMDD-N (e.g. TCK-20260830-42). Counters live in redis and
// roll over naturally at midnight because the key embeds the date.
type Allocator struct {
	client *redis.Client
	now    func() time.Time
}

// NewAllocator creates an allocator backed by the given redis client.
func NewAllocator(client *redis.Client) *Allocator {
	return &Allocator{
		client: client,
		now:    time.Now,
	}
}

// Next allocates the next identifier for the entity prefix.
func (a *Allocator) Next(ctx context.Context, prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("sequence prefix must not be empty")
	}

	day := a.now().Format("20060102")
	key := fmt.Sprintf("seq:%s:%s", prefix, day)

	n, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment sequence %s: %w", key, err)
	}

	if n > maxPerDay {
		return "", fmt.Errorf("sequence %s exhausted at %d: %w", key, n, model.ErrSequenceOverflow)
	}

	// expire stale counters two days out; the date in the key is what
	// actually partitions the sequence
	if n == 1 {
		a.client.Expire(ctx, key, 48*time.Hour)
	}

	return fmt.Sprintf("%s-%s-%d", prefix, day, n), nil
}
