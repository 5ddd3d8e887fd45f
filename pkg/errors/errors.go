package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code so copies produced by WithInternal still compare equal.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code && e.StatusCode == other.StatusCode
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy of the AppError carrying a different client message.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Message = message
	return &cpy
}

// WithDetails returns a copy of the AppError carrying structured details for the error envelope.
func (e *AppError) WithDetails(details any) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Details = details
	return &cpy
}

// Authentication and account errors.
var (
	ErrUserAlreadyExists = &AppError{
		Code:       "USER_ALREADY_EXISTS",
		Message:    "User with email already exists",
		StatusCode: http.StatusForbidden,
	}
	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		StatusCode: http.StatusNotFound,
	}
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid Email Or Password",
		StatusCode: http.StatusBadRequest,
	}
	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Token is invalid Or expired",
		StatusCode: http.StatusUnauthorized,
	}
	ErrRevokedToken = &AppError{
		Code:       "REVOKED_TOKEN",
		Message:    "Token is invalid or has been revoked",
		StatusCode: http.StatusUnauthorized,
	}
	ErrAccessTokenRequired = &AppError{
		Code:       "ACCESS_TOKEN_REQUIRED",
		Message:    "Please provide a valid access token",
		StatusCode: http.StatusUnauthorized,
	}
	ErrRefreshTokenRequired = &AppError{
		Code:       "REFRESH_TOKEN_REQUIRED",
		Message:    "Please provide a valid refresh token",
		StatusCode: http.StatusForbidden,
	}
	ErrInsufficientPermission = &AppError{
		Code:       "INSUFFICIENT_PERMISSION",
		Message:    "You do not have enough permissions to perform this action",
		StatusCode: http.StatusUnauthorized,
	}
	ErrAccountNotVerified = &AppError{
		Code:       "ACCOUNT_NOT_VERIFIED",
		Message:    "Account Not verified",
		StatusCode: http.StatusForbidden,
	}
	ErrUserAlreadyVerified = &AppError{
		Code:       "USER_ALREADY_VERIFIED",
		Message:    "User already verified",
		StatusCode: http.StatusConflict,
	}
	ErrPasswordAlreadySet = &AppError{
		Code:       "PASSWORD_ALREADY_SET",
		Message:    "Password already set",
		StatusCode: http.StatusConflict,
	}
	ErrInvalidResetLink = &AppError{
		Code:       "INVALID_RESET_LINK",
		Message:    "Invalid or Expired Link",
		StatusCode: http.StatusBadRequest,
	}
	ErrPasswordReused = &AppError{
		Code:       "PASSWORD_REUSED",
		Message:    "You cannot use your old password",
		StatusCode: http.StatusBadRequest,
	}
	ErrFederatedAuthFailed = &AppError{
		Code:       "FEDERATED_AUTH_FAILED",
		Message:    "Invalid ID token",
		StatusCode: http.StatusForbidden,
	}
)

// Business domain errors.
var (
	ErrBusinessAlreadyLinked = &AppError{
		Code:       "BUSINESS_ALREADY_LINKED",
		Message:    "Account is already linked to a business",
		StatusCode: http.StatusConflict,
	}
	ErrBusinessRequired = &AppError{
		Code:       "BUSINESS_REQUIRED",
		Message:    "Account is not linked to a business",
		StatusCode: http.StatusForbidden,
	}
	ErrCustomerNotFound = &AppError{
		Code:       "CUSTOMER_NOT_FOUND",
		Message:    "Customer not found",
		StatusCode: http.StatusNotFound,
	}
	ErrTransactionNotFound = &AppError{
		Code:       "TRANSACTION_NOT_FOUND",
		Message:    "Transaction not found",
		StatusCode: http.StatusNotFound,
	}
	ErrTransactionNotPending = &AppError{
		Code:       "TRANSACTION_NOT_PENDING",
		Message:    "Transaction is not awaiting approval",
		StatusCode: http.StatusConflict,
	}
	ErrAlreadyApproved = &AppError{
		Code:       "ALREADY_APPROVED",
		Message:    "Transaction already approved by this user",
		StatusCode: http.StatusConflict,
	}
)

// Generic errors.
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrValidation = &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "validation errors",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Oops! Something went wrong",
		StatusCode: http.StatusInternalServerError,
	}

	ErrRateLimit = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please slow down",
		StatusCode: http.StatusTooManyRequests,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps request errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: ErrBadRequest.StatusCode,
	}
}

// NewValidation builds a 422 error whose details describe the first failing field.
func NewValidation(details any) *AppError {
	return ErrValidation.WithDetails(details)
}
