package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost factor used for stored passwords.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords longer than
// MaxPasswordBytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// resetTokenBytes is the entropy of a password reset token before hex encoding.
const resetTokenBytes = 32

// HashPassword returns a salted bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHashes caches one throwaway hash per cost for CheckDummyPassword.
var dummyHashes sync.Map

// CheckDummyPassword runs a comparison as expensive as CheckPassword against a
// hash of the given cost that nothing matches. Login calls it for unknown
// usernames so their response time matches a wrong password.
func CheckDummyPassword(password string, cost int) {
	cost = normalizeCost(cost)
	h, ok := dummyHashes.Load(cost)
	if !ok {
		b, err := bcrypt.GenerateFromPassword([]byte("no account has this password"), cost)
		if err != nil {
			return
		}
		h, _ = dummyHashes.LoadOrStore(cost, b)
	}
	_ = bcrypt.CompareHashAndPassword(h.([]byte), []byte(password))
}

func normalizeCost(cost int) int {
	if cost == 0 {
		return DefaultBcryptCost
	}
	return cost
}

// NewResetToken returns 32 random bytes, hex encoded (64 chars).
func NewResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
