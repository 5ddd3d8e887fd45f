package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charlesng35/corpman/internal/cache"
	"github.com/charlesng35/corpman/internal/monitoring"
)

const probeTTL = 10 * time.Second

// TokenStore writes, reads back and deletes a short-lived key in the store that backs token
// revocation and rate limiting. backend names the store in the probe details.
func TokenStore(store cache.Store, backend string) monitoring.Check {
	return monitoring.NewCheck("token_store", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if store == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "token store not configured"}
		}

		if err := roundTrip(ctx, store); err != nil {
			result := monitoring.ResultFromError("token_store", err, time.Since(start))
			result.Details = backend + ": " + result.Details
			return result
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  backend,
			Duration: time.Since(start),
		}
	})
}

func roundTrip(ctx context.Context, store cache.Store) error {
	key := "health:probe:" + uuid.NewString()
	if err := store.Set(ctx, key, []byte("1"), probeTTL); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	defer func() { _ = store.Delete(context.WithoutCancel(ctx), key) }()

	ok, err := store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if !ok {
		return fmt.Errorf("read: probe key not found")
	}
	return nil
}
