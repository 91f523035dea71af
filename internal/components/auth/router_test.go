package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasnagy-data/authsvc/internal/shared/config"
	"github.com/andrasnagy-data/authsvc/internal/shared/token"
)

type fakeServicer struct {
	issued *IssuedToken
	err    error

	gotUsername, gotPassword, gotType string
}

func (f *fakeServicer) IssueToken(_ context.Context, username, password, requestedType string) (*IssuedToken, error) {
	f.gotUsername, f.gotPassword, f.gotType = username, password, requestedType
	return f.issued, f.err
}

func newTestRouter(svc servicer) (http.Handler, *token.Issuer) {
	cfg := &config.Config{
		JWTSecret:    "router-secret",
		TokenTTL:     time.Hour,
		TokenIssuer:  "authsvc",
		CookieSecure: true,
	}
	issuer := token.NewIssuer(cfg)
	return NewRouter(svc, issuer, cfg), issuer
}

func TestRouter_IssueToken(t *testing.T) {
	expires := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeServicer{issued: &IssuedToken{
		Token:     "signed.jwt.value",
		ExpiresAt: expires,
		UserType:  StandardUser,
		Roles:     []string{"StandardUser"},
	}}
	h, _ := newTestRouter(svc)

	body := `{"username":"alice","password":"correct","userType":"StandardUser"}`
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "alice", svc.gotUsername)
	assert.Equal(t, "correct", svc.gotPassword)
	assert.Equal(t, "StandardUser", svc.gotType)

	var out IssueTokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "signed.jwt.value", out.Token)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.True(t, expires.Equal(out.ExpiresAt))
	assert.Equal(t, StandardUser, out.UserType)
	assert.Equal(t, []string{"StandardUser"}, out.Roles)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "signed.jwt.value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestRouter_IssueToken_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{"username":`, wantStatus: http.StatusBadRequest, wantCode: ErrInvalidInput},
		{name: "unknown field", body: `{"username":"a","password":"b","userType":"StandardUser","admin":true}`, wantStatus: http.StatusBadRequest, wantCode: ErrInvalidInput},
		{name: "invalid input", body: `{}`, err: NewInvalidInputError("username is required", nil), wantStatus: http.StatusBadRequest, wantCode: ErrInvalidInput},
		{name: "not authenticated", body: `{}`, err: NewNotAuthenticatedError("invalid username or password", nil), wantStatus: http.StatusUnauthorized, wantCode: ErrNotAuthenticated},
		{name: "not authorized", body: `{}`, err: NewNotAuthorizedError("user is not permitted to act as ServiceAccount", nil), wantStatus: http.StatusForbidden, wantCode: ErrNotAuthorized},
		{name: "store unavailable", body: `{}`, err: NewStoreUnavailableError("credential store unavailable", ErrStoreMissing), wantStatus: http.StatusServiceUnavailable, wantCode: ErrStoreUnavailable},
		{name: "unexpected error", body: `{}`, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(&fakeServicer{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())

			var out ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
			assert.Equal(t, tt.wantCode, out.Error)
			assert.NotEmpty(t, out.Message)
			assert.NotContains(t, out.Message, "credential file", "store details must not leak to callers")
		})
	}
}

func TestRouter_Me(t *testing.T) {
	h, issuer := newTestRouter(&fakeServicer{})

	signed, claims, err := issuer.Issue("build-bot", []string{"deployer"}, "ServiceAccount")
	require.NoError(t, err)

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var out MeResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
		assert.Equal(t, "build-bot", out.Username)
		assert.Equal(t, "ServiceAccount", out.UserType)
		assert.Equal(t, []string{"deployer"}, out.Roles)
		assert.Equal(t, claims.ID, out.TokenID)
		assert.True(t, claims.ExpiresAt.Time.Equal(out.ExpiresAt))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signed})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := token.NewIssuer(&config.Config{JWTSecret: "other", TokenTTL: time.Hour, TokenIssuer: "authsvc"})
		forged, _, err := other.Issue("build-bot", []string{"deployer"}, "ServiceAccount")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
