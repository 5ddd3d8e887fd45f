package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	values map[string]time.Duration
}

func (s *recordingStore) IncrementWithTTL(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, nil
}

func (s *recordingStore) Set(_ context.Context, key string, _ []byte, ttl time.Duration) error {
	if s.values == nil {
		s.values = map[string]time.Duration{}
	}
	s.values[key] = ttl
	return nil
}

func (s *recordingStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	_, ok := s.values[key]
	return []byte("1"), ok, nil
}

func (s *recordingStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.values[key]
	return ok, nil
}

func (s *recordingStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func TestRevocationTTLMatchesRemainingLifetime(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &recordingStore{}
	revocations := NewRevocationStore(store, time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, revocations.Revoke(ctx, "jti-1", now.Add(30*time.Minute)))
	require.Equal(t, 30*time.Minute, store.values["auth:revoked:jti-1"])

	require.NoError(t, revocations.Revoke(ctx, "jti-2", now.Add(-time.Minute)))
	require.Equal(t, time.Second, store.values["auth:revoked:jti-2"])

	require.NoError(t, revocations.Revoke(ctx, "jti-3", time.Time{}))
	require.Equal(t, time.Hour, store.values["auth:revoked:jti-3"])

	require.Error(t, revocations.Revoke(ctx, " ", now))
}

func TestIsRevoked(t *testing.T) {
	store := &recordingStore{}
	revocations := NewRevocationStore(store, 0, nil)
	ctx := context.Background()

	revoked, err := revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, revocations.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err = revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = revocations.IsRevoked(ctx, "")
	require.NoError(t, err)
	require.False(t, revoked)
}
