package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T, now func() time.Time) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret: "super-secret",
		Clock:  now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestIssueAndDecodeAccessToken(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, func() time.Time { return current })

	token, issued, err := svc.Issue(UserPayload{
		Email:     "user@example.com",
		UID:       "user-123",
		Role:      "user",
		SessionID: "session-456",
	}, ClassAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.ID)

	claims, err := svc.Decode(token)
	require.NoError(t, err)

	require.Equal(t, issued.ID, claims.ID)
	require.Equal(t, "user@example.com", claims.User.Email)
	require.Equal(t, "session-456", claims.User.SessionID)
	require.NotNil(t, claims.SessionID)
	require.Equal(t, "session-456", *claims.SessionID)
	require.Equal(t, ClassAccess, claims.Class())
	require.False(t, claims.Refresh)
	require.False(t, claims.IsTemp)
	require.True(t, claims.ExpiresAtTime().Equal(current.Add(DefaultAccessTokenTTL)))
}

func TestIssueClassesAndLifetimes(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, func() time.Time { return current })
	user := UserPayload{Email: "user@example.com"}

	cases := []struct {
		class   TokenClass
		ttl     time.Duration
		refresh bool
		temp    bool
	}{
		{ClassAccess, 24 * time.Hour, false, false},
		{ClassRefresh, 48 * time.Hour, true, false},
		{ClassTemporary, 10 * time.Minute, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.class.String(), func(t *testing.T) {
			token, _, err := svc.Issue(user, tc.class)
			require.NoError(t, err)

			claims, err := svc.Decode(token)
			require.NoError(t, err)
			require.Equal(t, tc.class, claims.Class())
			require.Equal(t, tc.refresh, claims.Refresh)
			require.Equal(t, tc.temp, claims.IsTemp)
			require.Nil(t, claims.SessionID)
			require.True(t, claims.ExpiresAtTime().Equal(current.Add(tc.ttl)))
		})
	}

	require.Equal(t, 48*time.Hour, svc.MaxTTL())
}

func TestIssueGeneratesUniqueTokenIDs(t *testing.T) {
	svc := newTestJWTService(t, nil)
	_, first, err := svc.Issue(UserPayload{Email: "a@example.com"}, ClassAccess)
	require.NoError(t, err)
	_, second, err := svc.Issue(UserPayload{Email: "a@example.com"}, ClassAccess)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestIssueRequiresIdentity(t *testing.T) {
	svc := newTestJWTService(t, nil)
	_, _, err := svc.Issue(UserPayload{}, ClassAccess)
	require.Error(t, err)
}

func TestDecodeInvalidSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	issuer := newTestJWTService(t, now)
	token, _, err := issuer.Issue(UserPayload{Email: "user@example.com"}, ClassAccess)
	require.NoError(t, err)

	verifier, err := NewJWTService(JWTConfig{Secret: "other-secret", Clock: now})
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestDecodeExpired(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, func() time.Time { return current })

	token, _, err := svc.Issue(UserPayload{Email: "user@example.com"}, ClassTemporary)
	require.NoError(t, err)

	current = current.Add(11 * time.Minute)
	_, err = svc.Decode(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestDecodeRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t, nil)

	claims := &Claims{
		User: UserPayload{Email: "user@example.com"},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = svc.Decode(token)
	require.Error(t, err)

	_, err = svc.Decode("")
	require.Error(t, err)
}

func TestClaimsRequireIsExclusive(t *testing.T) {
	access := &Claims{}
	refresh := &Claims{Refresh: true}
	temp := &Claims{IsTemp: true}
	tempWithRefresh := &Claims{IsTemp: true, Refresh: true}

	require.NoError(t, access.Require(ClassAccess))
	require.ErrorIs(t, access.Require(ClassRefresh), ErrWrongTokenClass)
	require.ErrorIs(t, access.Require(ClassTemporary), ErrWrongTokenClass)

	require.NoError(t, refresh.Require(ClassRefresh))
	require.ErrorIs(t, refresh.Require(ClassAccess), ErrWrongTokenClass)

	require.NoError(t, temp.Require(ClassTemporary))
	require.NoError(t, tempWithRefresh.Require(ClassTemporary))
	require.ErrorIs(t, tempWithRefresh.Require(ClassRefresh), ErrWrongTokenClass)

	var missing *Claims
	require.ErrorIs(t, missing.Require(ClassAccess), ErrWrongTokenClass)
}
