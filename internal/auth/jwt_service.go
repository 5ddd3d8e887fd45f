package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 48 * time.Hour
	DefaultTempTokenTTL    = 10 * time.Minute
)

// TokenClass distinguishes the three kinds of tokens the service issues.
type TokenClass int

const (
	ClassAccess TokenClass = iota
	ClassRefresh
	ClassTemporary
)

func (c TokenClass) String() string {
	switch c {
	case ClassAccess:
		return "access"
	case ClassRefresh:
		return "refresh"
	case ClassTemporary:
		return "temporary"
	}
	return "unknown"
}

// ErrWrongTokenClass is returned by Claims.Require when a token of another class is presented.
var ErrWrongTokenClass = errors.New("jwt: wrong token class")

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	TempTokenTTL    time.Duration
	Clock           func() time.Time
}

// UserPayload is the user block embedded in every token.
type UserPayload struct {
	Email     string `json:"email"`
	UID       string `json:"uid,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Claims represents the custom claims embedded in issued JWTs.
// The token id travels in the registered "jti" claim.
type Claims struct {
	User      UserPayload `json:"user"`
	SessionID *string     `json:"session_id"`
	Refresh   bool        `json:"refresh"`
	IsTemp    bool        `json:"isTemp"`
	jwt.RegisteredClaims
}

// Class derives the token class from the refresh and isTemp flags.
func (c *Claims) Class() TokenClass {
	switch {
	case c.IsTemp:
		return ClassTemporary
	case c.Refresh:
		return ClassRefresh
	default:
		return ClassAccess
	}
}

// Require checks the class flags: access tokens carry neither flag, refresh
// tokens carry refresh without isTemp, temporary tokens need only isTemp.
func (c *Claims) Require(class TokenClass) error {
	if c == nil || c.Class() != class {
		return ErrWrongTokenClass
	}
	return nil
}

// ExpiresAtTime returns the expiry or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// JWTService is responsible for issuing and validating JSON Web Tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttls   map[TokenClass]time.Duration
	now    func() time.Time
}

// NewJWTService constructs a JWTService instance when provided with the required configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttls: map[TokenClass]time.Duration{
			ClassAccess:    orDefault(cfg.AccessTokenTTL, DefaultAccessTokenTTL),
			ClassRefresh:   orDefault(cfg.RefreshTokenTTL, DefaultRefreshTokenTTL),
			ClassTemporary: orDefault(cfg.TempTokenTTL, DefaultTempTokenTTL),
		},
		now: now,
	}, nil
}

// TTL returns the lifetime of tokens of the given class.
func (s *JWTService) TTL(class TokenClass) time.Duration {
	return s.ttls[class]
}

// MaxTTL returns the longest lifetime of any token class.
func (s *JWTService) MaxTTL() time.Duration {
	var longest time.Duration
	for _, ttl := range s.ttls {
		if ttl > longest {
			longest = ttl
		}
	}
	return longest
}

// Now returns the service clock's current time.
func (s *JWTService) Now() time.Time {
	return s.now()
}

// Issue signs a token of the requested class for the user payload.
// Every token gets a fresh jti.
func (s *JWTService) Issue(user UserPayload, class TokenClass) (string, *Claims, error) {
	if user.Email == "" && user.UID == "" {
		return "", nil, errors.New("jwt: user email or uid is required")
	}

	ttl, ok := s.ttls[class]
	if !ok {
		return "", nil, fmt.Errorf("jwt: unknown token class %d", class)
	}

	now := s.now()
	claims := &Claims{
		User:    user,
		Refresh: class == ClassRefresh,
		IsTemp:  class == ClassTemporary,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if user.SessionID != "" {
		sid := user.SessionID
		claims.SessionID = &sid
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, claims, nil
}

// Decode parses and validates a signed JWT, returning the application claims.
func (s *JWTService) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("jwt: token string is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.New("jwt: invalid issuer")
	}

	if claims.ID == "" {
		return nil, errors.New("jwt: missing jti claim")
	}

	return &claims, nil
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
