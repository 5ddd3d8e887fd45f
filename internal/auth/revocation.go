package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/corpman/internal/cache"
)

const revocationKeyPrefix = "auth:revoked:"

// RevocationStore records revoked token ids until the token would have expired anyway.
type RevocationStore struct {
	store    cache.Store
	fallback time.Duration
	now      func() time.Time
}

// NewRevocationStore wraps a cache store. fallback is used as TTL when a token's
// expiry is unknown.
func NewRevocationStore(store cache.Store, fallback time.Duration, clock func() time.Time) *RevocationStore {
	if store == nil {
		return nil
	}
	if fallback <= 0 {
		fallback = DefaultRefreshTokenTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &RevocationStore{store: store, fallback: fallback, now: clock}
}

// Revoke marks jti as revoked until expiresAt.
func (r *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	key := revocationKey(jti)
	if key == "" {
		return errors.New("revocation: token id is required")
	}

	ttl := r.fallback
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(r.now())
		if ttl < time.Second {
			ttl = time.Second
		}
	}

	if err := r.store.Set(ctx, key, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revocation: store %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := revocationKey(jti)
	if key == "" {
		return false, nil
	}

	revoked, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("revocation: lookup %s: %w", jti, err)
	}
	return revoked, nil
}

func revocationKey(jti string) string {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return ""
	}
	return revocationKeyPrefix + jti
}
