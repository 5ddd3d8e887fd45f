package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/middleware"
	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

func currentClaims(c *gin.Context) (*iauth.Claims, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, errors.ErrInvalidToken)
		return nil, false
	}
	return claims, true
}

func currentAccount(c *gin.Context) (*models.Account, bool) {
	account, ok := middleware.Account(c)
	if !ok {
		response.Error(c, errors.ErrInvalidToken)
		return nil, false
	}
	return account, true
}

// currentBusiness resolves the authenticated account and the business it belongs to.
func currentBusiness(c *gin.Context) (*models.Account, string, bool) {
	account, ok := currentAccount(c)
	if !ok {
		return nil, "", false
	}
	businessID, err := services.RequireBusiness(account)
	if err != nil {
		response.Error(c, err)
		return nil, "", false
	}
	return account, businessID, true
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
