package cache

import (
	"context"
	"time"
)

// CounterStore is a bounded fixed-window counter keyed by string. The
// login lockout sits on top of it; the memory implementation is the
// single-instance default and the Redis one makes the lockout hold
// across instances.
type CounterStore interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
