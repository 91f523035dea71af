package auth

import (
	"fmt"
	"time"
)

// UserType classifies an account as an interactive human or a non-interactive service identity.
type UserType string

const (
	StandardUser   UserType = "StandardUser"
	ServiceAccount UserType = "ServiceAccount"
)

func (t UserType) Valid() bool {
	return t == StandardUser || t == ServiceAccount
}

// ParseUserType accepts only the exact enumerated names.
func ParseUserType(s string) (UserType, error) {
	t := UserType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown user type %q", s)
	}
	return t, nil
}

type (
	// UserRecord is one entry of the credential file.
	UserRecord struct {
		Username     string   `json:"-"` // Key of the entry in the file
		PasswordHash string   `json:"passwordHash"`
		Type         UserType `json:"type"`
		Roles        []string `json:"roles,omitempty"`
	}

	IssueTokenRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		UserType string `json:"userType"`
	}

	IssueTokenResponse struct {
		Token     string    `json:"token"`
		TokenType string    `json:"tokenType"`
		ExpiresAt time.Time `json:"expiresAt"`
		UserType  UserType  `json:"userType"`
		Roles     []string  `json:"roles"`
	}

	MeResponse struct {
		Username  string    `json:"username"`
		UserType  string    `json:"userType"`
		Roles     []string  `json:"roles"`
		IssuedAt  time.Time `json:"issuedAt"`
		ExpiresAt time.Time `json:"expiresAt"`
		TokenID   string    `json:"tokenId"`
	}

	ErrorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	// IssuedToken is the facade's result.
	IssuedToken struct {
		Token     string
		ExpiresAt time.Time
		UserType  UserType
		Roles     []string
	}
)

// RoleClaims returns the roles to embed in a token; records without explicit
// roles get their type name as the single role.
func (u UserRecord) RoleClaims() []string {
	if len(u.Roles) == 0 {
		return []string{string(u.Type)}
	}
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return roles
}
