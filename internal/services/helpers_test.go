package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/cache"
	"github.com/charlesng35/corpman/internal/database/testutil"
	"github.com/charlesng35/corpman/internal/models"
)

type recordingNotifier struct {
	mu      sync.Mutex
	codes   map[string]string
	welcome map[string]bool
	phones  map[string]string
	resets  map[string]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		codes:   make(map[string]string),
		welcome: make(map[string]bool),
		phones:  make(map[string]string),
		resets:  make(map[string]string),
	}
}

func (n *recordingNotifier) VerificationCode(_ context.Context, email, code string, welcome bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
	n.welcome[email] = welcome
}

func (n *recordingNotifier) PhoneCode(_ context.Context, phone, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.phones[phone] = code
}

func (n *recordingNotifier) PasswordReset(_ context.Context, email, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets[email] = link
}

func (n *recordingNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type stubFederatedVerifier struct {
	identity *auth.FederatedIdentity
	err      error
}

func (s stubFederatedVerifier) Verify(context.Context, string) (*auth.FederatedIdentity, error) {
	return s.identity, s.err
}

type authFixture struct {
	db       *gorm.DB
	svc      *AuthService
	tokens   *auth.JWTService
	notifier *recordingNotifier
}

func newAuthFixture(t *testing.T, opts ...AuthOption) *authFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	tokens, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "corpman"})
	require.NoError(t, err)

	revocations := auth.NewRevocationStore(cache.NewDatabaseStore(db), tokens.MaxTTL(), nil)
	codes, err := NewVerificationService(db)
	require.NoError(t, err)
	notifier := newRecordingNotifier()

	opts = append([]AuthOption{WithBaseURL("https://corpman.test/")}, opts...)
	svc, err := NewAuthService(db, tokens, revocations, codes, notifier, opts...)
	require.NoError(t, err)

	return &authFixture{db: db, svc: svc, tokens: tokens, notifier: notifier}
}

func (f *authFixture) verifiedAccountWithPassword(t *testing.T, email, password string) *models.Account {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: email})
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, email, f.notifier.code(email))
	require.NoError(t, err)
	require.NoError(t, f.svc.SetPassword(ctx, email, password))

	account, err := f.svc.FindByEmail(ctx, email)
	require.NoError(t, err)
	return account
}

func fixedClock(t time.Time) (func() time.Time, *time.Time) {
	current := t
	return func() time.Time { return current }, &current
}
