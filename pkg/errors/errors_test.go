package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestCopiesStillMatchWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrInvalidToken.WithInternal(stdErrors.New("expired")))

	if !stdErrors.Is(wrapped, ErrInvalidToken) {
		t.Fatal("expected wrapped copy to match ErrInvalidToken")
	}
	if stdErrors.Is(wrapped, ErrRevokedToken) {
		t.Fatal("expected wrapped copy not to match ErrRevokedToken")
	}
}

func TestFromError(t *testing.T) {
	appErr := ErrUserNotFound
	if out := FromError(appErr); out != appErr {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestAuthErrorStatusTable(t *testing.T) {
	cases := map[*AppError]int{
		ErrUserAlreadyExists:      http.StatusForbidden,
		ErrUserNotFound:           http.StatusNotFound,
		ErrInvalidCredentials:     http.StatusBadRequest,
		ErrInvalidToken:           http.StatusUnauthorized,
		ErrRevokedToken:           http.StatusUnauthorized,
		ErrAccessTokenRequired:    http.StatusUnauthorized,
		ErrRefreshTokenRequired:   http.StatusForbidden,
		ErrInsufficientPermission: http.StatusUnauthorized,
		ErrAccountNotVerified:     http.StatusForbidden,
		ErrUserAlreadyVerified:    http.StatusConflict,
		ErrPasswordAlreadySet:     http.StatusConflict,
	}

	for appErr, status := range cases {
		if appErr.StatusCode != status {
			t.Fatalf("%s: expected status %d, got %d", appErr.Code, status, appErr.StatusCode)
		}
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation(map[string]string{"field": "email"})
	if err.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", err.StatusCode)
	}
	if err.Message != "validation errors" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if ErrValidation.Details != nil {
		t.Fatal("expected base validation error to remain untouched")
	}
}
