package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", New(Unauthenticated, "Authentication required"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"invalid credentials", New(InvalidCredentials, "Invalid credentials"), http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"blocked", New(Blocked, "Account is blocked"), http.StatusForbidden, ErrCodeAccountBlocked},
		{"feature disabled", New(FeatureDisabled, "off"), http.StatusForbidden, ErrCodeFeatureDisabled},
		{"forbidden", New(Forbidden, "Not authorized"), http.StatusForbidden, ErrCodeForbidden},
		{"not found", New(NotFound, "Project not found"), http.StatusNotFound, ErrCodeNotFound},
		{"conflict", New(Conflict, "dup"), http.StatusConflict, ErrCodeConflict},
		{"invalid state", New(InvalidState, "not pending"), http.StatusBadRequest, ErrCodeInvalidState},
		{"validation", New(Validation, "bad"), http.StatusBadRequest, ErrCodeInvalidInput},
		{"wrapped", fmt.Errorf("outer: %w", New(NotFound, "missing")), http.StatusNotFound, ErrCodeNotFound},
		{"unknown", stderrors.New("connection refused"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestClassifyHidesInternalMessages(t *testing.T) {
	_, body := Classify(stderrors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestRefinementsKeepParentKind(t *testing.T) {
	assert.True(t, stderrors.Is(New(Blocked, "x"), Forbidden))
	assert.True(t, stderrors.Is(New(InvalidCredentials, "x"), Unauthenticated))
	assert.False(t, stderrors.Is(New(Forbidden, "x"), Blocked))
}
