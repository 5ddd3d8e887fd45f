package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/handlers"
	"github.com/charlesng35/corpman/internal/middleware"
)

type authRouteDeps struct {
	Handler *handlers.AuthHandler
	Guard   *middleware.TokenGuard
	Loader  middleware.AccountLoader
}

func registerAuthRoutes(v1 *gin.RouterGroup, deps authRouteDeps) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", deps.Handler.Signup)
		auth.POST("/resend-verification", deps.Handler.ResendVerification)
		auth.POST("/verify-email", deps.Handler.VerifyEmail)
		auth.POST("/send-phone-verification-code", deps.Handler.SendPhoneCode)
		auth.POST("/verify-phone", deps.Handler.VerifyPhone)
		auth.POST("/login", deps.Handler.Login)
		auth.POST("/socio-auth", deps.Handler.FederatedLogin)
		auth.POST("/forgot-password", deps.Handler.ForgotPassword)
		auth.GET("/password-reset-confirm/:token", deps.Handler.CheckResetLink)
		auth.POST("/password-reset-confirm/:token", deps.Handler.ResetPassword)
	}

	auth.GET("/refresh-token", deps.Guard.RefreshToken(), deps.Handler.Refresh)

	access := auth.Group("")
	access.Use(deps.Guard.AccessToken())
	{
		access.POST("/set-password", deps.Handler.SetPassword)
		access.GET("/me", middleware.CurrentAccount(deps.Loader), deps.Handler.Me)
		access.GET("/logout", deps.Handler.Logout)
	}
}
