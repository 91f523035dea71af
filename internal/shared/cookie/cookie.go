package cookie

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const cookieName string = "token"

var ErrNoToken = errors.New("no token in request")

// SetToken stores an issued token in an HttpOnly cookie that expires together with the token.
func SetToken(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		HttpOnly: true,
		// Send cookie to all routes in the app
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  expiresAt,
	})
}

// Token extracts a token from the Authorization bearer header, falling back to the cookie.
func Token(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
			return "", ErrNoToken
		}
		return strings.TrimSpace(value), nil
	}

	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoToken
	}
	return c.Value, nil
}
