package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/authsvc/internal/shared/token"
)

type (
	servicer interface {
		IssueToken(ctx context.Context, username, password, requestedType string) (*IssuedToken, error)
	}

	tokenIssuer interface {
		Issue(subject string, roles []string, userType string) (string, token.Claims, error)
	}

	service struct {
		repo     Repository
		verifier verifier
		issuer   tokenIssuer
		logger   zerolog.Logger
	}

	serviceParams struct {
		fx.In

		Repo     Repository
		Verifier verifier
		Issuer   *token.Issuer
		Logger   zerolog.Logger
	}
)

func NewAuthService(p serviceParams) servicer {
	return newService(p.Repo, p.Verifier, p.Issuer, p.Logger)
}

func newService(repo Repository, v verifier, issuer tokenIssuer, logger zerolog.Logger) *service {
	return &service{
		repo:     repo,
		verifier: v,
		issuer:   issuer,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// IssueToken authenticates username/password, checks that the account is of the
// requested type and mints a token for it. Unknown users and wrong passwords fail
// identically; only the log tells them apart.
func (s *service) IssueToken(ctx context.Context, username, password, requestedType string) (*IssuedToken, error) {
	if username == "" {
		return nil, s.reject(NewInvalidInputError("username is required", nil), username, "missing_username")
	}
	if password == "" {
		return nil, s.reject(NewInvalidInputError("password is required", nil), username, "missing_password")
	}
	wantType, err := ParseUserType(requestedType)
	if err != nil {
		return nil, s.reject(NewInvalidInputError("userType must be StandardUser or ServiceAccount", err), username, "invalid_user_type")
	}

	user, err := s.repo.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.verifier.VerifyDecoy(password)
			return nil, s.reject(NewNotAuthenticatedError("invalid username or password", nil), username, "unknown_user")
		}
		authErr := NewStoreUnavailableError("credential store unavailable", err)
		s.logger.Error().Err(err).Str("username", username).Str("reason", "store_unavailable").Msg("Token request failed")
		return nil, authErr
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		return nil, s.reject(NewNotAuthenticatedError("invalid username or password", nil), username, "password_mismatch")
	}

	if user.Type != wantType {
		s.logger.Warn().
			Str("username", username).
			Str("requested_type", string(wantType)).
			Str("actual_type", string(user.Type)).
			Str("reason", "user_type_mismatch").
			Msg("Token request denied")
		return nil, NewNotAuthorizedError("user is not permitted to act as "+string(wantType), nil)
	}

	roles := user.RoleClaims()
	signed, claims, err := s.issuer.Issue(user.Username, roles, string(wantType))
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to sign token")
		return nil, NewInternalError("failed to create token", err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	s.logger.Info().
		Str("username", username).
		Str("user_type", string(wantType)).
		Str("token_id", claims.ID).
		Msg("Token issued")

	return &IssuedToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserType:  wantType,
		Roles:     roles,
	}, nil
}

func (s *service) reject(err AuthError, username, reason string) error {
	s.logger.Warn().
		Str("username", username).
		Str("reason", reason).
		Str("error_code", err.Code).
		Msg("Token request rejected")
	return err
}
