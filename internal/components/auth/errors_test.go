package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthError_Error(t *testing.T) {
	e := AuthError{Code: "x", Message: "msg"}
	assert.Equal(t, "x: msg", e.Error())
}

func TestAuthError_Error_WithInner(t *testing.T) {
	e := AuthError{Code: "x", Message: "msg", Inner: errors.New("cause")}
	assert.Equal(t, "x: msg: cause", e.Error())
}

func TestAuthError_Unwrap(t *testing.T) {
	inner := errors.New("cause")
	e := NewStoreUnavailableError("read failed", inner)
	assert.Same(t, inner, e.Unwrap())
	assert.True(t, errors.Is(e, inner))
	assert.Nil(t, AuthError{}.Unwrap())
}

func TestAuthError_Predicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{name: "invalid input", err: NewInvalidInputError("username is required", nil), is: IsInvalidInput},
		{name: "not authenticated", err: NewNotAuthenticatedError("invalid username or password", nil), is: IsNotAuthenticated},
		{name: "not authorized", err: NewNotAuthorizedError("user type mismatch", nil), is: IsNotAuthorized},
		{name: "store unavailable", err: NewStoreUnavailableError("read failed", nil), is: IsStoreUnavailable},
		{name: "internal", err: NewInternalError("sign failed", nil), is: IsInternal},
	}
	all := []func(error) bool{IsInvalidInput, IsNotAuthenticated, IsNotAuthorized, IsStoreUnavailable, IsInternal}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := 0
			for _, is := range all {
				if is(tt.err) {
					matches++
				}
			}
			assert.True(t, tt.is(tt.err))
			assert.Equal(t, 1, matches, "error kinds must be distinguishable")
			assert.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.is(errors.New("plain")))
		})
	}
}

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{NewInvalidInputError("bad", nil), http.StatusBadRequest, ErrInvalidInput},
		{NewNotAuthenticatedError("bad", nil), http.StatusUnauthorized, ErrNotAuthenticated},
		{NewNotAuthorizedError("bad", nil), http.StatusForbidden, ErrNotAuthorized},
		{NewStoreUnavailableError("bad", nil), http.StatusServiceUnavailable, ErrStoreUnavailable},
		{NewInternalError("bad", nil), http.StatusInternalServerError, ErrInternal},
		{errors.New("any"), http.StatusInternalServerError, ErrInternal},
	}

	for _, tt := range tests {
		status, body := toErrorResponse(tt.err)
		assert.Equal(t, tt.wantStatus, status)
		assert.Equal(t, tt.wantCode, body.Error)
	}
}

func TestToErrorResponse_HidesInnerError(t *testing.T) {
	err := NewStoreUnavailableError("credential store unavailable", errors.New("open /secret/path: permission denied"))
	_, body := toErrorResponse(err)
	require.Equal(t, "credential store unavailable", body.Message)
}
