package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/pkg/crypto"
	apperrors "github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/logger"
	"github.com/charlesng35/corpman/pkg/metrics"
)

// Revocation reasons reported to metrics.
const (
	RevokeReasonLogout        = "logout"
	RevokeReasonPasswordReset = "password_reset"
)

// TokenPair is an access and refresh token issued together.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginUser identifies the account a login result belongs to.
type LoginUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// LoginResult is returned by password and federated logins.
type LoginResult struct {
	TokenPair
	User LoginUser `json:"user"`
}

// ClientInfo describes the device a request came from.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// SignupInput carries the fields accepted at signup.
type SignupInput struct {
	Email string
	Phone string
}

// LoginInput carries password login credentials.
type LoginInput struct {
	Email    string
	Password string
	Client   ClientInfo
}

// FederatedLoginInput carries a federated ID token and the email it claims.
type FederatedLoginInput struct {
	Email   string
	IDToken string
	Client  ClientInfo
}

// AuthOption customises the AuthService.
type AuthOption func(*AuthService)

// WithFederatedVerifier enables federated login.
func WithFederatedVerifier(verifier auth.FederatedVerifier) AuthOption {
	return func(s *AuthService) {
		s.federated = verifier
	}
}

// WithBaseURL sets the public base URL used in password reset links.
func WithBaseURL(url string) AuthOption {
	return func(s *AuthService) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// AuthService implements signup, verification, login and password flows.
type AuthService struct {
	db          *gorm.DB
	tokens      *auth.JWTService
	revocations *auth.RevocationStore
	codes       *VerificationService
	notifier    AccountNotifier
	federated   auth.FederatedVerifier
	baseURL     string
}

// NewAuthService wires the authentication flows.
func NewAuthService(db *gorm.DB, tokens *auth.JWTService, revocations *auth.RevocationStore, codes *VerificationService, notifier AccountNotifier, opts ...AuthOption) (*AuthService, error) {
	switch {
	case db == nil:
		return nil, errors.New("auth service: db is required")
	case tokens == nil:
		return nil, errors.New("auth service: token service is required")
	case revocations == nil:
		return nil, errors.New("auth service: revocation store is required")
	case codes == nil:
		return nil, errors.New("auth service: verification service is required")
	case notifier == nil:
		return nil, errors.New("auth service: notifier is required")
	}

	svc := &AuthService{
		db:          db,
		tokens:      tokens,
		revocations: revocations,
		codes:       codes,
		notifier:    notifier,
		baseURL:     "http://localhost:8000",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Signup creates an unverified account and mails a verification code.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.Account, error) {
	ctx = ensureContext(ctx)
	email := models.NormaliseEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	if phone != "" {
		if _, err := s.FindByPhone(ctx, phone); err == nil {
			return nil, apperrors.ErrUserAlreadyExists.WithMessage("User with phone already exists")
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
	}

	account := &models.Account{
		Email: &email,
		Phone: optionalString(phone),
		Role:  models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, translateWriteError(err, apperrors.ErrUserAlreadyExists, "auth service: create account")
	}

	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	s.notifier.VerificationCode(ctx, email, code, true)

	return account, nil
}

// ResendVerification issues a new email code for an existing account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	ctx = ensureContext(ctx)
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.codes.Issue(ctx, account.EmailAddress())
	if err != nil {
		return err
	}
	s.notifier.VerificationCode(ctx, account.EmailAddress(), code, false)
	return nil
}

// VerifyEmail consumes an email code, marks the account verified and returns tokens.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*TokenPair, error) {
	ctx = ensureContext(ctx)
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.IsEmailVerified {
		return nil, apperrors.ErrUserAlreadyVerified
	}

	ok, err := s.codes.Consume(ctx, account.EmailAddress(), code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.updateAccount(ctx, account, map[string]any{"is_email_verified": true}); err != nil {
		return nil, err
	}
	return s.issuePair(account, "")
}

// SendPhoneCode texts a verification code to the account owning phone.
func (s *AuthService) SendPhoneCode(ctx context.Context, phone string) error {
	ctx = ensureContext(ctx)
	account, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	code, err := s.codes.Issue(ctx, account.PhoneNumber())
	if err != nil {
		return err
	}
	s.notifier.PhoneCode(ctx, account.PhoneNumber(), code)
	return nil
}

// VerifyPhone consumes a phone code, marks the phone verified and returns tokens.
func (s *AuthService) VerifyPhone(ctx context.Context, phone, code string) (*TokenPair, error) {
	ctx = ensureContext(ctx)
	account, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if account.IsPhoneVerified {
		return nil, apperrors.ErrUserAlreadyVerified
	}

	ok, err := s.codes.Consume(ctx, account.PhoneNumber(), code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.updateAccount(ctx, account, map[string]any{"is_phone_verified": true}); err != nil {
		return nil, err
	}
	return s.issuePair(account, "")
}

// SetPassword sets the first password of an account.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	ctx = ensureContext(ctx)
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.HasPassword {
		return apperrors.ErrPasswordAlreadySet
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth service: hash password: %w", err)
	}
	return s.updateAccount(ctx, account, map[string]any{"password_hash": hash, "has_password": true})
}

// Login verifies credentials, rotates the session id and records the login.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx = ensureContext(ctx)
	account, err := s.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.HasPassword || !crypto.VerifyPassword(account.PasswordHash, input.Password) {
		metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	if err := s.updateAccount(ctx, account, map[string]any{"current_session_id": sessionID}); err != nil {
		return nil, err
	}

	result, err := s.loginResult(account, sessionID)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, account, input.Client, "password")
	metrics.AuthAttempts.WithLabelValues("password", "success").Inc()
	return result, nil
}

// FederatedLogin verifies an ID token and logs in, creating a verified account on first use.
func (s *AuthService) FederatedLogin(ctx context.Context, input FederatedLoginInput) (*LoginResult, error) {
	ctx = ensureContext(ctx)
	if s.federated == nil {
		return nil, apperrors.ErrFederatedAuthFailed.WithMessage("Federated login is not configured")
	}

	email := models.NormaliseEmail(input.Email)
	identity, err := s.federated.Verify(ctx, input.IDToken)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("federated", "failure").Inc()
		message := "Invalid ID token"
		if errors.Is(err, auth.ErrIDTokenExpired) {
			message = "Expired ID token"
		}
		return nil, apperrors.ErrFederatedAuthFailed.WithMessage(message).WithInternal(err)
	}
	if identity.Email != "" && models.NormaliseEmail(identity.Email) != email {
		metrics.AuthAttempts.WithLabelValues("federated", "failure").Inc()
		return nil, apperrors.ErrFederatedAuthFailed.WithMessage("ID token does not belong to this email")
	}

	account, err := s.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		account = &models.Account{
			Email:            &email,
			Name:             strings.TrimSpace(identity.Name),
			ImageURL:         strings.TrimSpace(identity.Picture),
			Role:             models.RoleUser,
			IsEmailVerified:  true,
			CurrentSessionID: uuid.NewString(),
		}
		if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
			return nil, translateWriteError(err, apperrors.ErrUserAlreadyExists, "auth service: create federated account")
		}
	default:
		return nil, err
	}

	result, err := s.loginResult(account, account.CurrentSessionID)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, account, input.Client, "federated")
	metrics.AuthAttempts.WithLabelValues("federated", "success").Inc()
	return result, nil
}

// Refresh issues a new access token from the user payload of a refresh token.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.Claims) (string, error) {
	ctx = ensureContext(ctx)
	if claims == nil {
		return "", apperrors.ErrInvalidToken
	}

	if _, err := s.FindByEmail(ctx, claims.User.Email); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrInvalidToken
		}
		return "", err
	}

	token, _, err := s.tokens.Issue(claims.User, auth.ClassAccess)
	if err != nil {
		return "", fmt.Errorf("auth service: issue access token: %w", err)
	}
	return token, nil
}

// ForgotPassword mails a temporary reset link when the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ctx = ensureContext(ctx)
	email = models.NormaliseEmail(email)

	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, _, err := s.tokens.Issue(auth.UserPayload{Email: account.EmailAddress()}, auth.ClassTemporary)
	if err != nil {
		return fmt.Errorf("auth service: issue reset token: %w", err)
	}

	s.notifier.PasswordReset(ctx, account.EmailAddress(), s.ResetLink(token))
	return nil
}

// ResetLink builds the public password reset URL for token.
func (s *AuthService) ResetLink(token string) string {
	return fmt.Sprintf("%s/api/v1/auth/password-reset-confirm/%s", s.baseURL, token)
}

// CheckResetToken reports whether token is a usable password reset token.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) (bool, error) {
	ctx = ensureContext(ctx)
	claims, err := s.tokens.Decode(token)
	if err != nil || claims.Require(auth.ClassTemporary) != nil || claims.User.Email == "" {
		return false, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return false, err
	}
	return !revoked, nil
}

// ResetPassword replaces the password of the account named by a temporary token
// and revokes the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx = ensureContext(ctx)
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return apperrors.ErrInvalidToken.WithInternal(err)
	}
	if err := claims.Require(auth.ClassTemporary); err != nil {
		return apperrors.ErrInvalidToken.WithInternal(err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return apperrors.ErrInvalidResetLink
	}

	if claims.User.Email == "" {
		return apperrors.ErrInvalidResetLink
	}

	account, err := s.FindByEmail(ctx, claims.User.Email)
	if err != nil {
		return err
	}

	if crypto.VerifyPassword(account.PasswordHash, newPassword) {
		return apperrors.ErrPasswordReused
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth service: hash password: %w", err)
	}
	if err := s.updateAccount(ctx, account, map[string]any{"password_hash": hash, "has_password": true}); err != nil {
		return err
	}

	return s.Revoke(ctx, claims, RevokeReasonPasswordReset)
}

// Revoke adds the token id of claims to the revocation store.
func (s *AuthService) Revoke(ctx context.Context, claims *auth.Claims, reason string) error {
	if claims == nil {
		return apperrors.ErrInvalidToken
	}
	if err := s.revocations.Revoke(ensureContext(ctx), claims.ID, claims.ExpiresAtTime()); err != nil {
		return err
	}
	metrics.TokenRevocations.WithLabelValues(reason).Inc()
	return nil
}

// FindByEmail loads an account by email.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = models.NormaliseEmail(email)
	if email == "" {
		return nil, apperrors.ErrUserNotFound
	}
	return s.findAccount(ctx, "email = ?", email)
}

// FindByPhone loads an account by phone number.
func (s *AuthService) FindByPhone(ctx context.Context, phone string) (*models.Account, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.ErrUserNotFound
	}
	return s.findAccount(ctx, "phone = ?", phone)
}

// PurgeLoginHistory deletes login records older than cutoff.
func (s *AuthService) PurgeLoginHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).
		Where("login_time < ?", cutoff).
		Delete(&models.AuthMetaData{})
	if result.Error != nil {
		return 0, fmt.Errorf("auth service: purge login history: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *AuthService) findAccount(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ensureContext(ctx)).Where(query, args...).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load account: %w", err)
	}
	return &account, nil
}

func (s *AuthService) updateAccount(ctx context.Context, account *models.Account, values map[string]any) error {
	if err := s.db.WithContext(ctx).Model(account).Updates(values).Error; err != nil {
		return fmt.Errorf("auth service: update account: %w", err)
	}
	return nil
}

func (s *AuthService) issuePair(account *models.Account, sessionID string) (*TokenPair, error) {
	user := auth.UserPayload{
		Email: account.EmailAddress(),
		UID:   account.ID,
		Role:  string(account.Role),
	}

	refresh, _, err := s.tokens.Issue(user, auth.ClassRefresh)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue refresh token: %w", err)
	}

	user.SessionID = sessionID
	access, _, err := s.tokens.Issue(user, auth.ClassAccess)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue access token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) loginResult(account *models.Account, sessionID string) (*LoginResult, error) {
	pair, err := s.issuePair(account, sessionID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		TokenPair: *pair,
		User: LoginUser{
			UID:   account.ID,
			Email: account.EmailAddress(),
		},
	}, nil
}

// recordLogin is best effort; a failed insert is logged and never fails the login.
func (s *AuthService) recordLogin(ctx context.Context, account *models.Account, client ClientInfo, method string) {
	entry := models.AuthMetaData{
		AccountID: account.ID,
		DeviceIP:  truncate(client.IP, 64),
		UserAgent: truncate(client.UserAgent, 512),
		Method:    method,
		LoginTime: s.tokens.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.WithModule("auth").Warn("record login metadata failed",
			zap.String("account", account.ID),
			zap.String("method", method),
			zap.Error(err),
		)
	}
}

// truncate caps value at max bytes without splitting a UTF-8 sequence.
// Invalid input bytes are dropped first.
func truncate(value string, max int) string {
	value = strings.ToValidUTF8(value, "")
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
