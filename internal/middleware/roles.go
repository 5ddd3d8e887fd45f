package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/metrics"
)

// RequireRoles allows verified accounts holding one of roles. It must run after CurrentAccount.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		account, ok := Account(c)
		if !ok {
			metrics.RoleChecks.WithLabelValues("denied").Inc()
			abort(c, errors.ErrInvalidToken)
			return
		}

		if !account.IsEmailVerified {
			metrics.RoleChecks.WithLabelValues("unverified").Inc()
			abort(c, errors.ErrAccountNotVerified)
			return
		}

		if _, ok := allowed[account.Role]; !ok {
			metrics.RoleChecks.WithLabelValues("denied").Inc()
			abort(c, errors.ErrInsufficientPermission)
			return
		}

		metrics.RoleChecks.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
