package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/models"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/logger"
)

func TestSignupCreatesUnverifiedAccountAndMailsCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account, err := f.svc.Signup(ctx, SignupInput{Email: "  Alice@Example.com ", Phone: "+2348011111111"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", account.EmailAddress())
	require.Equal(t, models.RoleUser, account.Role)
	require.False(t, account.IsEmailVerified)
	require.False(t, account.HasPassword)

	require.NotEmpty(t, f.notifier.code("alice@example.com"))
	require.True(t, f.notifier.welcome["alice@example.com"])

	_, err = f.svc.Signup(ctx, SignupInput{Email: "alice@example.com"})
	require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = f.svc.Signup(ctx, SignupInput{Email: "other@example.com", Phone: "+2348011111111"})
	require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestResendVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.ResendVerification(ctx, "ghost@example.com"), apperrors.ErrUserNotFound)

	_, err := f.svc.Signup(ctx, SignupInput{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NoError(t, f.svc.ResendVerification(ctx, "alice@example.com"))
	require.False(t, f.notifier.welcome["alice@example.com"])
}

func TestVerifyEmailIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.svc.VerifyEmail(ctx, "alice@example.com", "000000x")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	pair, err := f.svc.VerifyEmail(ctx, "alice@example.com", f.notifier.code("alice@example.com"))
	require.NoError(t, err)

	access, err := f.tokens.Decode(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, auth.ClassAccess, access.Class())
	require.Equal(t, "alice@example.com", access.User.Email)

	refresh, err := f.tokens.Decode(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, auth.ClassRefresh, refresh.Class())

	account, err := f.svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, account.IsEmailVerified)

	_, err = f.svc.VerifyEmail(ctx, "alice@example.com", "123456")
	require.ErrorIs(t, err, apperrors.ErrUserAlreadyVerified)
}

func TestVerifyPhone(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.SendPhoneCode(ctx, "+2348000000001"), apperrors.ErrUserNotFound)

	_, err := f.svc.Signup(ctx, SignupInput{Email: "alice@example.com", Phone: "+2348000000001"})
	require.NoError(t, err)
	require.NoError(t, f.svc.SendPhoneCode(ctx, "+2348000000001"))

	code := f.notifier.phones["+2348000000001"]
	require.NotEmpty(t, code)

	_, err = f.svc.VerifyPhone(ctx, "+2348000000001", code)
	require.NoError(t, err)

	_, err = f.svc.VerifyPhone(ctx, "+2348000000001", code)
	require.ErrorIs(t, err, apperrors.ErrUserAlreadyVerified)
}

func TestSetPasswordOnlyOnce(t *testing.T) {
	f := newAuthFixture(t)
	f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	err := f.svc.SetPassword(context.Background(), "alice@example.com", "another123")
	require.ErrorIs(t, err, apperrors.ErrPasswordAlreadySet)
}

func TestLoginRotatesSessionAndRecordsMetadata(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	account := f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	_, err := f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password123"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	client := ClientInfo{IP: "10.0.0.1", UserAgent: "go-test"}
	first, err := f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123", Client: client})
	require.NoError(t, err)
	require.Equal(t, account.ID, first.User.UID)

	second, err := f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123", Client: client})
	require.NoError(t, err)

	firstClaims, err := f.tokens.Decode(first.AccessToken)
	require.NoError(t, err)
	secondClaims, err := f.tokens.Decode(second.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, firstClaims.User.SessionID)
	require.NotEqual(t, firstClaims.User.SessionID, secondClaims.User.SessionID)

	refreshClaims, err := f.tokens.Decode(second.RefreshToken)
	require.NoError(t, err)
	require.Empty(t, refreshClaims.User.SessionID)

	var logins []models.AuthMetaData
	require.NoError(t, f.db.Where("account_id = ?", account.ID).Find(&logins).Error)
	require.Len(t, logins, 2)
	require.Equal(t, "10.0.0.1", logins[0].DeviceIP)
	require.Equal(t, "password", logins[0].Method)
}

func TestLoginSurvivesMetadataFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	require.NoError(t, f.db.Migrator().DropTable(&models.AuthMetaData{}))

	result, err := f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)

	entries := logs.FilterMessage("record login metadata failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "password", entries[0].ContextMap()["method"])
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	require.Equal(t, "go-test", truncate("go-test", 512))
	require.Equal(t, "abc", truncate("abcdef", 3))

	agent := strings.Repeat("a", 510) + "日本"
	got := truncate(agent, 512)
	require.Equal(t, strings.Repeat("a", 510), got)
	require.True(t, utf8.ValidString(got))

	require.Equal(t, "ab", truncate("a\xffb", 10))
}

func TestLoginWithoutPasswordFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: ""})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	result, err := f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := f.tokens.Decode(result.RefreshToken)
	require.NoError(t, err)

	token, err := f.svc.Refresh(ctx, claims)
	require.NoError(t, err)
	access, err := f.tokens.Decode(token)
	require.NoError(t, err)
	require.Equal(t, auth.ClassAccess, access.Class())

	require.NoError(t, f.db.Where("email = ?", "alice@example.com").Delete(&models.Account{}).Error)
	_, err = f.svc.Refresh(ctx, claims)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ghost@example.com"))
	require.Empty(t, f.notifier.resets["ghost@example.com"])

	require.NoError(t, f.svc.ForgotPassword(ctx, "alice@example.com"))
	link := f.notifier.resets["alice@example.com"]
	prefix := "https://corpman.test/api/v1/auth/password-reset-confirm/"
	require.True(t, strings.HasPrefix(link, prefix), link)
	token := strings.TrimPrefix(link, prefix)

	valid, err := f.svc.CheckResetToken(ctx, token)
	require.NoError(t, err)
	require.True(t, valid)

	err = f.svc.ResetPassword(ctx, token, "password123")
	require.ErrorIs(t, err, apperrors.ErrPasswordReused)

	require.NoError(t, f.svc.ResetPassword(ctx, token, "newpassword1"))

	err = f.svc.ResetPassword(ctx, token, "newpassword2")
	require.ErrorIs(t, err, apperrors.ErrInvalidResetLink)

	valid, err = f.svc.CheckResetToken(ctx, token)
	require.NoError(t, err)
	require.False(t, valid)

	_, err = f.svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "newpassword1"})
	require.NoError(t, err)
}

func TestResetPasswordRejectsNonTemporaryTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedAccountWithPassword(t, "alice@example.com", "password123")

	access, _, err := f.tokens.Issue(auth.UserPayload{Email: "alice@example.com"}, auth.ClassAccess)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.ResetPassword(ctx, access, "newpassword1"), apperrors.ErrInvalidToken)
	require.ErrorIs(t, f.svc.ResetPassword(ctx, "garbage", "newpassword1"), apperrors.ErrInvalidToken)

	valid, err := f.svc.CheckResetToken(ctx, access)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestFederatedLoginCreatesVerifiedAccount(t *testing.T) {
	verifier := stubFederatedVerifier{identity: &auth.FederatedIdentity{
		Subject: "firebase-uid",
		Email:   "alice@example.com",
		Name:    "Alice Doe",
		Picture: "https://img.example.com/alice.png",
	}}
	f := newAuthFixture(t, WithFederatedVerifier(verifier))
	ctx := context.Background()

	result, err := f.svc.FederatedLogin(ctx, FederatedLoginInput{Email: "alice@example.com", IDToken: "token"})
	require.NoError(t, err)

	account, err := f.svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, account.IsEmailVerified)
	require.Equal(t, "Alice Doe", account.Name)
	require.Equal(t, account.ID, result.User.UID)

	claims, err := f.tokens.Decode(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.CurrentSessionID, claims.User.SessionID)

	again, err := f.svc.FederatedLogin(ctx, FederatedLoginInput{Email: "alice@example.com", IDToken: "token"})
	require.NoError(t, err)
	require.Equal(t, account.ID, again.User.UID)

	_, err = f.svc.FederatedLogin(ctx, FederatedLoginInput{Email: "mallory@example.com", IDToken: "token"})
	require.ErrorIs(t, err, apperrors.ErrFederatedAuthFailed)
}

func TestFederatedLoginMapsVerifierErrors(t *testing.T) {
	f := newAuthFixture(t, WithFederatedVerifier(stubFederatedVerifier{err: auth.ErrIDTokenExpired}))

	_, err := f.svc.FederatedLogin(context.Background(), FederatedLoginInput{Email: "alice@example.com", IDToken: "token"})
	require.ErrorIs(t, err, apperrors.ErrFederatedAuthFailed)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "Expired ID token", appErr.Message)
}

func TestFederatedLoginDisabled(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.FederatedLogin(context.Background(), FederatedLoginInput{Email: "alice@example.com", IDToken: "token"})
	require.ErrorIs(t, err, apperrors.ErrFederatedAuthFailed)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, claims, err := f.tokens.Issue(auth.UserPayload{Email: "alice@example.com"}, auth.ClassAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.svc.Revoke(ctx, claims, RevokeReasonLogout))

	revoked, err := f.svc.revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, revoked)
}
