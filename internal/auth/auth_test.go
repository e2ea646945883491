package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	tok, err := ti.Issue(Identity{UserID: "alice", Name: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := ti.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "alice" || id.Name != "alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestTokenIssuer_IssueRejectsEmptyUser(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	if _, err := ti.Issue(Identity{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	tok, _ := NewTokenIssuer("one", time.Hour).Issue(Identity{UserID: "alice"})
	if _, err := NewTokenIssuer("two", time.Hour).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)
	past := time.Now().Add(-time.Hour)
	ti.now = func() time.Time { return past }
	tok, err := ti.Issue(Identity{UserID: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	ti.now = time.Now
	if _, err := ti.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestTokenIssuer_RejectsUnsignedBlob(t *testing.T) {
	// The legacy credential format: base64(JSON) with no signature.
	raw, _ := json.Marshal(map[string]string{"user_id": "alice", "name": "alice"})
	blob := base64.StdEncoding.EncodeToString(raw)
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(blob); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unsigned blob must not verify, got %v", err)
	}
}

func TestTokenIssuer_RejectsNoneAlg(t *testing.T) {
	claims := &Claims{
		UserID: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg=none must not verify, got %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("pw", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "pw" || !strings.HasPrefix(h, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", h)
	}
	if !CheckPassword(h, "pw") {
		t.Fatalf("matching password rejected")
	}
	if CheckPassword(h, "nope") {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_DefaultCost(t *testing.T) {
	h, err := HashPassword("pw", 0)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$10$") {
		t.Fatalf("expected cost 10 hash, got %q", h)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes), 4); err != nil {
		t.Fatalf("72 bytes should hash: %v", err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1), 4); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("want ErrPasswordTooLong, got %v", err)
	}
}

func TestCheckDummyPassword_CachesPerCost(t *testing.T) {
	CheckDummyPassword("pw", 4)
	CheckDummyPassword(strings.Repeat("x", 100), 4)
	h, ok := dummyHashes.Load(4)
	if !ok {
		t.Fatalf("dummy hash not cached")
	}
	if cost, err := bcrypt.Cost(h.([]byte)); err != nil || cost != 4 {
		t.Fatalf("dummy hash cost=%d err=%v", cost, err)
	}
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	b, _ := NewResetToken()
	if len(a) != 64 || a == b {
		t.Fatalf("tokens should be 64 hex chars and unique: %q %q", a, b)
	}
}
