package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxTokenKey     = "authToken"
	CtxAccountKey   = "account"
	CtxSessionIDKey = "sessionID"
)

// AccountLoader resolves the account a token was issued for.
type AccountLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// TokenGuard validates bearer tokens and checks them against the revocation store.
type TokenGuard struct {
	jwt         *iauth.JWTService
	revocations *iauth.RevocationStore
}

// NewTokenGuard constructs a TokenGuard.
func NewTokenGuard(jwt *iauth.JWTService, revocations *iauth.RevocationStore) *TokenGuard {
	return &TokenGuard{jwt: jwt, revocations: revocations}
}

// AccessToken accepts only access tokens.
func (g *TokenGuard) AccessToken() gin.HandlerFunc {
	return g.bearer(func(claims *iauth.Claims) *errors.AppError {
		if claims.Require(iauth.ClassAccess) != nil {
			return errors.ErrAccessTokenRequired
		}
		return nil
	})
}

// RefreshToken accepts only refresh tokens.
func (g *TokenGuard) RefreshToken() gin.HandlerFunc {
	return g.bearer(func(claims *iauth.Claims) *errors.AppError {
		if claims.Require(iauth.ClassTemporary) == nil {
			return errors.ErrAccessTokenRequired
		}
		if claims.Require(iauth.ClassRefresh) != nil {
			return errors.ErrRefreshTokenRequired
		}
		return nil
	})
}

func (g *TokenGuard) bearer(check func(*iauth.Claims) *errors.AppError) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			abort(c, errors.ErrInvalidToken)
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := g.jwt.Decode(token)
		if err != nil {
			abort(c, errors.ErrInvalidToken.WithInternal(err))
			return
		}

		revoked, err := g.revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if revoked {
			abort(c, errors.ErrRevokedToken)
			return
		}

		if appErr := check(claims); appErr != nil {
			abort(c, appErr)
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxTokenKey, token)
		if claims.User.SessionID != "" {
			c.Set(CtxSessionIDKey, claims.User.SessionID)
		}

		c.Next()
	}
}

// CurrentAccount loads the account named by the validated claims.
func CurrentAccount(accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			abort(c, errors.ErrInvalidToken)
			return
		}

		account, err := accounts.FindByEmail(c.Request.Context(), claims.User.Email)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxAccountKey, account)
		c.Next()
	}
}

// Claims returns the validated token claims stored on the context.
func Claims(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok && claims != nil
}

// Account returns the authenticated account stored on the context.
func Account(c *gin.Context) (*models.Account, bool) {
	value, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok && account != nil
}

func abort(c *gin.Context, err *errors.AppError) {
	if err.StatusCode == 401 {
		c.Header("WWW-Authenticate", "Bearer")
	}
	response.Error(c, err)
	c.Abort()
}
