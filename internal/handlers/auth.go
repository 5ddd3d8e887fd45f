package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/response"
)

// AuthHandler exposes the signup, verification, login and password flows.
type AuthHandler struct {
	svc *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupRequest struct {
	Email string `json:"email" validate:"required,max=40,account_email"`
	Phone string `json:"phone" validate:"omitempty,max=32,phone"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,max=40,account_email"`
}

type emailVerificationRequest struct {
	Email string `json:"email" validate:"required,max=40,account_email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required,max=32,phone"`
}

type phoneVerificationRequest struct {
	Phone string `json:"phone" validate:"required,max=32,phone"`
	Code  string `json:"code" validate:"required,len=6"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=40"`
	Password string `json:"password" validate:"required,min=8"`
}

type federatedLoginRequest struct {
	Email   string `json:"email" validate:"required,max=40"`
	IDToken string `json:"id_token" validate:"required"`
}

type resetConfirmRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=20"`
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.svc.Signup(requestContext(c), services.SignupInput{Email: req.Email, Phone: req.Phone})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Signup successful, Please check your email to verify your account", account)
}

// POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.ResendVerification(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Please check your email to verify your account", nil)
}

// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req emailVerificationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.VerifyEmail(requestContext(c), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Email verified successfully", pair)
}

// POST /api/v1/auth/send-phone-verification-code
func (h *AuthHandler) SendPhoneCode(c *gin.Context) {
	var req phoneRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.SendPhoneCode(requestContext(c), req.Phone); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Please check your sms for verification code", nil)
}

// POST /api/v1/auth/verify-phone
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	var req phoneVerificationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.VerifyPhone(requestContext(c), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Phone number verified successfully", pair)
}

// POST /api/v1/auth/set-password
func (h *AuthHandler) SetPassword(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req setPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.SetPassword(requestContext(c), claims.User.Email, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Password set Successfully", nil)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.Login(requestContext(c), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfo(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", result)
}

// POST /api/v1/auth/socio-auth
func (h *AuthHandler) FederatedLogin(c *gin.Context) {
	var req federatedLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.FederatedLogin(requestContext(c), services.FederatedLoginInput{
		Email:   req.Email,
		IDToken: req.IDToken,
		Client:  clientInfo(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", result)
}

// GET /api/v1/auth/refresh-token
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	token, err := h.svc.Refresh(requestContext(c), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"access_token": token})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, account)
}

// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.ForgotPassword(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Please check your email for instructions to reset your password", nil)
}

// GET /api/v1/auth/password-reset-confirm/:token
func (h *AuthHandler) CheckResetLink(c *gin.Context) {
	valid, err := h.svc.CheckResetToken(requestContext(c), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Reset link is valid"
	if !valid {
		message = "Invalid or Expired Link"
	}
	response.SuccessWithMessage(c, http.StatusOK, message, gin.H{"valid": valid})
}

// POST /api/v1/auth/password-reset-confirm/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetConfirmRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.ResetPassword(requestContext(c), c.Param("token"), req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Password reset Successfully", nil)
}

// GET /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.svc.Revoke(requestContext(c), claims, services.RevokeReasonLogout); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Logout successful", nil)
}
