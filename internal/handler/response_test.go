package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakabidaasta/npc-hackaton/internal/apperror"
)

func TestWriteError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperror.ValidationFailed("text", "message text is required"), http.StatusBadRequest, "validation_error"},
		{"not found", apperror.NotFound("user", "abc123"), http.StatusNotFound, "not_found"},
		{"unauthorized", apperror.Unauthorized("invalid email or password"), http.StatusUnauthorized, "unauthorized"},
		{"conflict", apperror.Conflict("a user with this email already exists"), http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			// Services wrap domain errors before handlers see them; the
			// mapping must look through the chain.
			writeError(rec, fmt.Errorf("service: %w", tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteError_HidesUnknownErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 127.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	raw := rec.Body.String()
	assert.NotContains(t, raw, "127.0.0.1")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, "internal_error", body.Error)
	assert.Equal(t, "An internal error occurred", body.Message)
}
