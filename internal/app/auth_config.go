package app

import (
	"strings"

	"github.com/charlesng35/corpman/internal/auth"
)

const defaultIssuer = "corpman"

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	issuer := strings.TrimSpace(c.JWT.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}

	return auth.JWTConfig{
		Secret:          c.JWT.Secret,
		Issuer:          issuer,
		AccessTokenTTL:  durationOr(c.JWT.AccessTTL, auth.DefaultAccessTokenTTL),
		RefreshTokenTTL: durationOr(c.JWT.RefreshTTL, auth.DefaultRefreshTokenTTL),
		TempTokenTTL:    durationOr(c.JWT.TempTTL, auth.DefaultTempTokenTTL),
	}
}
