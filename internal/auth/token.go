// Package auth issues and verifies bearer credentials and wraps password and
// reset-token primitives.
//
// Bearer tokens are HS256-signed JWTs carrying the user's id and display name.
// Verification is purely cryptographic; callers that must reject tokens of
// deleted users perform their own existence lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for malformed, unsigned, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated principal carried by a bearer token.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Claims are the JWT claims minted for an Identity.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a shared secret.
// It is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret; tokens expire after ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a signed token for id.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("issue token: empty user id")
	}
	now := t.now()
	claims := &Claims{
		UserID: id.UserID,
		Name:   id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify checks the signature and expiry of tokenString and returns the
// identity it carries.
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Name: claims.Name}, nil
}
