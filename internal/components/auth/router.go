package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/authsvc/internal/shared/config"
	"github.com/andrasnagy-data/authsvc/internal/shared/cookie"
	"github.com/andrasnagy-data/authsvc/internal/shared/middleware"
	"github.com/andrasnagy-data/authsvc/internal/shared/token"
)

const maxRequestBody = 1 << 16

type (
	Router struct {
		service      servicer
		parser       middleware.TokenParser
		cookieSecure bool
	}
)

func NewRouter(service servicer, issuer *token.Issuer, cfg *config.Config) chi.Router {
	router := &Router{
		service:      service,
		parser:       issuer,
		cookieSecure: cfg.CookieSecure,
	}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/token", r.IssueToken)
	router.With(middleware.NewAuthMiddleware(r.parser)).Get("/me", r.Me)
	return router
}

// IssueToken godoc
// @Summary Issue an access token
// @Description Verifies username and password and returns a signed JWT for the requested user type.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body IssueTokenRequest true "Credentials"
// @Success 200 {object} IssueTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /auth/token [post]
func (r *Router) IssueToken(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var in IssueTokenRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		logger.Debug().Err(err).Msg("Invalid token request body")
		writeError(w, NewInvalidInputError("request body must be a JSON object with username, password and userType", err))
		return
	}

	issued, err := r.service.IssueToken(ctx, in.Username, in.Password, in.UserType)
	if err != nil {
		if IsStoreUnavailable(err) || IsInternal(err) {
			logger.Error().Err(err).Str("username", in.Username).Msg("Token request failed")
		}
		writeError(w, err)
		return
	}

	cookie.SetToken(w, issued.Token, issued.ExpiresAt, r.cookieSecure)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, IssueTokenResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
		UserType:  issued.UserType,
		Roles:     issued.Roles,
	})
}

// Me godoc
// @Summary Describe the caller's token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (r *Router) Me(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.GetClaims(req.Context())
	if !ok {
		writeError(w, NewNotAuthenticatedError("missing token", nil))
		return
	}

	out := MeResponse{
		Username: claims.Subject,
		UserType: claims.UserType,
		Roles:    claims.Roles,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, out)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := toErrorResponse(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
