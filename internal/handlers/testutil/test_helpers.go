package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/api"
	"github.com/charlesng35/corpman/internal/app"
	iauth "github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/cache"
	sharedtestutil "github.com/charlesng35/corpman/internal/database/testutil"
	"github.com/charlesng35/corpman/internal/middleware"
	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

const baseURL = "https://corpman.test"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	JWT      *iauth.JWTService
	Auth     *services.AuthService
	Notifier *RecordingNotifier
}

// EnvOption customises NewEnv.
type EnvOption func(*envConfig)

type envConfig struct {
	cfg         *app.Config
	authOptions []services.AuthOption
	monitoring  *monitoring.Module
}

// WithConfig replaces the default application config.
func WithConfig(mutate func(cfg *app.Config)) EnvOption {
	return func(ec *envConfig) {
		mutate(ec.cfg)
	}
}

// WithAuthOptions forwards options to the auth service.
func WithAuthOptions(opts ...services.AuthOption) EnvOption {
	return func(ec *envConfig) {
		ec.authOptions = append(ec.authOptions, opts...)
	}
}

// WithMonitoring mounts health and monitoring routes backed by module.
func WithMonitoring(module *monitoring.Module) EnvOption {
	return func(ec *envConfig) {
		ec.monitoring = module
		ec.cfg.Monitoring.Health.Enabled = true
	}
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	ec := &envConfig{cfg: &app.Config{
		Server: app.ServerConfig{BaseURL: baseURL},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret:  "test-suite-super-secret-key-32-bytes!!",
				Issuer:  "test-suite",
				TempTTL: 10 * time.Minute,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
		},
	}}
	for _, opt := range opts {
		opt(ec)
	}
	cfg := ec.cfg

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	store := cache.NewDatabaseStore(db)
	revocations := iauth.NewRevocationStore(store, jwtSvc.MaxTTL(), nil)

	codes, err := services.NewVerificationService(db)
	require.NoError(t, err)

	notifier := NewRecordingNotifier()
	authOpts := append([]services.AuthOption{services.WithBaseURL(cfg.Server.BaseURL)}, ec.authOptions...)
	authSvc, err := services.NewAuthService(db, jwtSvc, revocations, codes, notifier, authOpts...)
	require.NoError(t, err)

	businesses, err := services.NewBusinessService(db)
	require.NoError(t, err)
	customers, err := services.NewCustomerService(db)
	require.NoError(t, err)
	assets, err := services.NewAssetService(db)
	require.NoError(t, err)
	transactions, err := services.NewTransactionService(db)
	require.NoError(t, err)

	router, err := api.NewRouter(api.Deps{
		Config:       cfg,
		Tokens:       jwtSvc,
		Revocations:  revocations,
		Auth:         authSvc,
		Businesses:   businesses,
		Customers:    customers,
		Assets:       assets,
		Transactions: transactions,
		RateStore:    middleware.NewCacheRateStore(store),
		Monitoring:   ec.monitoring,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		JWT:      jwtSvc,
		Auth:     authSvc,
		Notifier: notifier,
	}
}

// Request performs an HTTP request against the router. body is JSON encoded unless nil.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// DecodeResponse unmarshals the envelope and decodes its data block into dest when provided.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dest any) response.Response {
	t.Helper()

	var envelope struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())

	if dest != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, dest), rec.Body.String())
	}
	return envelope.Response
}

// Decode is DecodeResponse bound to the environment's test.
func (e *Env) Decode(rec *httptest.ResponseRecorder, dest any) response.Response {
	e.T.Helper()
	return DecodeResponse(e.T, rec, dest)
}

// DecodeRaw unmarshals the whole response body into dest.
func (e *Env) DecodeRaw(rec *httptest.ResponseRecorder, dest any) {
	e.T.Helper()
	require.NoError(e.T, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

// TokenPair mirrors the token payload returned by verification and login endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult bundles the JSON response from POST /api/v1/auth/login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignupAndVerify registers email and confirms it with the delivered code.
func (e *Env) SignupAndVerify(email string) TokenPair {
	e.T.Helper()

	rec := e.Request(http.MethodPost, "/api/v1/auth/signup", map[string]string{"email": email}, "")
	require.Equal(e.T, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.Request(http.MethodPost, "/api/v1/auth/verify-email", map[string]string{
		"email": email,
		"code":  e.Notifier.Code(email),
	}, "")
	require.Equal(e.T, http.StatusOK, rec.Code, rec.Body.String())

	var pair TokenPair
	DecodeResponse(e.T, rec, &pair)
	require.NotEmpty(e.T, pair.AccessToken)
	return pair
}

// CreateAccount signs up, verifies and sets a password, then logs in.
func (e *Env) CreateAccount(email, password string) LoginResult {
	e.T.Helper()

	pair := e.SignupAndVerify(email)

	rec := e.Request(http.MethodPost, "/api/v1/auth/set-password", map[string]string{"password": password}, pair.AccessToken)
	require.Equal(e.T, http.StatusOK, rec.Code, rec.Body.String())

	return e.Login(email, password)
}

// Login authenticates with email and password and returns the issued tokens.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	rec := e.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, rec.Code, rec.Body.String())

	var result LoginResult
	DecodeResponse(e.T, rec, &result)
	return result
}

// SetRole changes the role stored for the account with email.
func (e *Env) SetRole(email string, role models.Role) {
	e.T.Helper()
	require.NoError(e.T, e.DB.Model(&models.Account{}).Where("email = ?", email).Update("role", role).Error)
}

// CreateBusiness registers a business for the bearer of token and returns its id.
func (e *Env) CreateBusiness(token, name string) string {
	e.T.Helper()

	rec := e.Request(http.MethodPost, "/api/v1/businesses", map[string]any{
		"business_name":  name,
		"business_phone": "+2348000000000",
	}, token)
	require.Equal(e.T, http.StatusCreated, rec.Code, rec.Body.String())

	var business struct {
		ID string `json:"id"`
	}
	DecodeResponse(e.T, rec, &business)
	require.NotEmpty(e.T, business.ID)
	return business.ID
}

// RecordingNotifier captures outgoing codes and links instead of delivering them.
type RecordingNotifier struct {
	mu     sync.Mutex
	codes  map[string]string
	phones map[string]string
	resets map[string]string
}

// NewRecordingNotifier constructs an empty RecordingNotifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{
		codes:  make(map[string]string),
		phones: make(map[string]string),
		resets: make(map[string]string),
	}
}

func (n *RecordingNotifier) VerificationCode(_ context.Context, email, code string, _ bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
}

func (n *RecordingNotifier) PhoneCode(_ context.Context, phone, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.phones[phone] = code
}

func (n *RecordingNotifier) PasswordReset(_ context.Context, email, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets[email] = link
}

// Code returns the last email verification code sent to email.
func (n *RecordingNotifier) Code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

// LastPhoneCode returns the last SMS code sent to phone.
func (n *RecordingNotifier) LastPhoneCode(phone string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.phones[phone]
}

// ResetLink returns the last password reset link mailed to email.
func (n *RecordingNotifier) ResetLink(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resets[email]
}
