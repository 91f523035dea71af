package auth

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrInvalidInput     = "invalid_input"
	ErrNotAuthenticated = "not_authenticated"
	ErrNotAuthorized    = "not_authorized"
	ErrStoreUnavailable = "store_unavailable"
	ErrInternal         = "internal"
)

// Sentinels returned by the credential store.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrStoreMissing   = errors.New("credential file does not exist")
	ErrStoreMalformed = errors.New("credential file is malformed")
)

type AuthError struct {
	Code    string
	Message string
	Inner   error
}

func (e AuthError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e AuthError) Unwrap() error { return e.Inner }

func NewInvalidInputError(message string, inner error) AuthError {
	return AuthError{Code: ErrInvalidInput, Message: message, Inner: inner}
}

func IsInvalidInput(err error) bool {
	return hasCode(err, ErrInvalidInput)
}

func NewNotAuthenticatedError(message string, inner error) AuthError {
	return AuthError{Code: ErrNotAuthenticated, Message: message, Inner: inner}
}

func IsNotAuthenticated(err error) bool {
	return hasCode(err, ErrNotAuthenticated)
}

func NewNotAuthorizedError(message string, inner error) AuthError {
	return AuthError{Code: ErrNotAuthorized, Message: message, Inner: inner}
}

func IsNotAuthorized(err error) bool {
	return hasCode(err, ErrNotAuthorized)
}

func NewStoreUnavailableError(message string, inner error) AuthError {
	return AuthError{Code: ErrStoreUnavailable, Message: message, Inner: inner}
}

// IsStoreUnavailable reports a store failure; these are safe to retry.
func IsStoreUnavailable(err error) bool {
	return hasCode(err, ErrStoreUnavailable)
}

func NewInternalError(message string, inner error) AuthError {
	return AuthError{Code: ErrInternal, Message: message, Inner: inner}
}

func IsInternal(err error) bool {
	return hasCode(err, ErrInternal)
}

func hasCode(err error, code string) bool {
	var e AuthError
	return errors.As(err, &e) && e.Code == code
}

// httpStatus maps AuthError codes to HTTP status codes.
func httpStatus(code string) int {
	switch code {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrNotAuthenticated:
		return http.StatusUnauthorized
	case ErrNotAuthorized:
		return http.StatusForbidden
	case ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toErrorResponse converts err into a status and body safe to return to callers.
// Anything that is not an AuthError becomes a generic internal error.
func toErrorResponse(err error) (int, ErrorResponse) {
	var authErr AuthError
	if errors.As(err, &authErr) {
		return httpStatus(authErr.Code), ErrorResponse{Error: authErr.Code, Message: authErr.Message}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: ErrInternal, Message: "internal error"}
}
