package services

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InviteTTL is how long an invitation code stays redeemable.
const InviteTTL = 14 * 24 * time.Hour

// NewInviteCode generates a fresh invitation code. The code is a bearer
// secret: it is returned to the coach once and only its hash is stored.
func NewInviteCode() string {
	return uuid.NewString()
}

// HashInviteCode hashes a code for storage.
func HashInviteCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyInviteCode reports whether a presented code matches a stored hash.
func VerifyInviteCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
