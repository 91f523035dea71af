package auth

import (
	"strings"
	"sync"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
)

type (
	verifier interface {
		Verify(candidate, storedHash string) bool
		// VerifyDecoy burns the cost of one verification; used when the user does not exist.
		VerifyDecoy(candidate string)
	}

	passwordVerifier struct {
		decoyOnce sync.Once
		decoy     []byte
	}
)

func NewVerifier() verifier {
	return &passwordVerifier{}
}

// HashPassword produces the bcrypt hash stored in the credential file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify picks the scheme from the hash prefix. Supported: bcrypt ($2a$, $2b$, $2y$)
// and SHA-crypt ($5$, $6$). Unknown schemes never verify.
func (v *passwordVerifier) Verify(candidate, storedHash string) bool {
	switch {
	case strings.HasPrefix(storedHash, "$2a$"),
		strings.HasPrefix(storedHash, "$2b$"),
		strings.HasPrefix(storedHash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
	case strings.HasPrefix(storedHash, "$6$"):
		return verifyCrypt(sha512_crypt.New(), storedHash, candidate)
	case strings.HasPrefix(storedHash, "$5$"):
		return verifyCrypt(sha256_crypt.New(), storedHash, candidate)
	default:
		return false
	}
}

func (v *passwordVerifier) VerifyDecoy(candidate string) {
	v.decoyOnce.Do(func() {
		v.decoy, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(v.decoy, []byte(candidate))
}

func verifyCrypt(c crypt.Crypter, hash, password string) bool {
	return c.Verify(hash, []byte(password)) == nil
}
