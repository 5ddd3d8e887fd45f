package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by a store that was never initialised.
var ErrUnavailable = errors.New("cache: store unavailable")

// Store is the shared key/value backend behind token revocation and rate
// limiting. A zero or negative ttl on Set means the key never lapses.
type Store interface {
	// IncrementWithTTL bumps a fixed-window counter. The window starts on the
	// first hit and the returned duration is the time left in it.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}
