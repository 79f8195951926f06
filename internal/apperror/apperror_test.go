package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("user", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound via errors.Is")
	}
	if err.Message == "" {
		t.Error("NotFound() should carry a human-readable message")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "a valid email is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}

func TestConflict_MatchesSentinel(t *testing.T) {
	err := Conflict("a user with this email already exists")

	if !errors.Is(err, ErrConflict) {
		t.Error("Conflict() should match ErrConflict")
	}
}

func TestUnauthorized_MatchesSentinel(t *testing.T) {
	err := Unauthorized("invalid email or password")

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("Unauthorized() should match ErrUnauthorized")
	}
}

func TestWrappedAppError_StillMatches(t *testing.T) {
	// Services wrap AppErrors with %w; errors.Is must still see the
	// sentinel through the chain.
	inner := Conflict("duplicate")
	wrapped := fmt.Errorf("service/auth: creating user: %w", inner)

	if !errors.Is(wrapped, ErrConflict) {
		t.Error("wrapped AppError should still match ErrConflict")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract the AppError from the chain")
	}
	if appErr.Message != "duplicate" {
		t.Errorf("Message = %q, want %q", appErr.Message, "duplicate")
	}
}
