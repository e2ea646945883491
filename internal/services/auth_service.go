// Package services – AuthService
//
// This file implements registration, login, bearer-token authentication and
// the two-step password reset flow. Passwords are bcrypt hashed; emails are
// case-folded before they are stored or compared.
//
// Observability: every public method opens an OpenTelemetry span and failed
// credential checks increment doubtdesk_auth_failures_total.
package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/auth"
	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

const (
	defaultResetTTL      = time.Hour
	defaultResetLinkBase = "http://127.0.0.1:5500/client/reset-password.html"
)

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Branch   *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// AuthService owns user accounts and credentials.
type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer

	BcryptCost    int
	ResetTTL      time.Duration
	ResetLinkBase string

	// Now is overridable in tests.
	Now func() time.Time
}

// Register creates an account and returns a token for it. Name defaults to
// the username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Register",
		trace.WithAttributes(attribute.String("user.id", in.Username)),
	)
	defer span.End()

	username := strings.TrimSpace(in.Username)
	email := foldEmail(in.Email)
	if username == "" || in.Password == "" || email == "" {
		return nil, ErrMissingFields
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserID:   username,
		Name:     username,
		Email:    email,
		Branch:   blankToNil(in.Branch),
		Password: hash,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		span.RecordError(err)
		return nil, err
	}
	return s.issue(u)
}

// Login checks username and password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Login",
		trace.WithAttributes(attribute.String("user.id", username)),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	u, err := repo.GetUserByID(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.CheckDummyPassword(password, s.BcryptCost)
			authFailures.WithLabelValues("credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		span.RecordError(err)
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		authFailures.WithLabelValues("credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Authenticate verifies a bearer token and confirms its user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Authenticate")
	defer span.End()

	id, err := s.Tokens.Verify(token)
	if err != nil {
		authFailures.WithLabelValues("token").Inc()
		return auth.Identity{}, ErrAuthFailed
	}
	span.SetAttributes(attribute.String("user.id", id.UserID))

	ok, err := repo.UserExists(ctx, s.DB, id.UserID)
	if err != nil {
		span.RecordError(err)
		return auth.Identity{}, ErrAuthFailed
	}
	if !ok {
		authFailures.WithLabelValues("unknown_user").Inc()
		return auth.Identity{}, ErrUnknownUser
	}
	return id, nil
}

// ForgotPassword stores a fresh reset token for the account owning email and
// returns the reset link embedding it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "ForgotPassword")
	defer span.End()

	email = foldEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrEmailNotFound
		}
		span.RecordError(err)
		return "", err
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return "", err
	}
	ttl := s.ResetTTL
	if ttl <= 0 {
		ttl = defaultResetTTL
	}
	if _, err := repo.CreatePasswordReset(ctx, s.DB, u.UserID, token, s.now().Add(ttl)); err != nil {
		span.RecordError(err)
		return "", err
	}
	return s.resetLink(token), nil
}

// ResetPassword consumes a valid reset token and replaces the password. Every
// outstanding token of the user is invalidated in the same transaction.
//
// The token is checked before the password so an unknown token always reports
// ErrInvalidResetToken; it is checked again inside the transaction that
// consumes it.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "ResetPassword")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return ErrResetFieldsRequired
	}

	if _, err := repo.FindValidReset(ctx, s.DB, token, s.now()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			authFailures.WithLabelValues("reset_token").Inc()
			return ErrInvalidResetToken
		}
		span.RecordError(err)
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pr, err := repo.FindValidReset(ctx, tx, token, s.now())
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if err := repo.UpdatePassword(ctx, tx, pr.UserID, hash); err != nil {
			return err
		}
		_, err = repo.DeleteResetsForUser(ctx, tx, pr.UserID)
		return err
	})
	if errors.Is(err, ErrInvalidResetToken) {
		authFailures.WithLabelValues("reset_token").Inc()
	} else if err != nil {
		span.RecordError(err)
	}
	return err
}

// hash maps bcrypt's length limit to a client error.
func (s *AuthService) hash(password string) (string, error) {
	h, err := auth.HashPassword(password, s.BcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return h, err
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.Tokens.Issue(auth.Identity{UserID: u.UserID, Name: u.Name})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, User: *u}, nil
}

func (s *AuthService) resetLink(token string) string {
	base := s.ResetLinkBase
	if base == "" {
		base = defaultResetLinkBase
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// foldEmail trims and case-folds an address so lookups are case-insensitive.
func foldEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
