// Package services holds the business rules for accounts, doubts, responses
// and notifications. This file centralizes the service-level error values.
//
// Each error's text is the client-facing message; the HTTP layer picks the
// status code with errors.Is and echoes Error() verbatim.
package services

import "errors"

// Account and credential errors.
var (
	// ErrMissingFields is returned when register or login omits a required field.
	ErrMissingFields = errors.New("All fields required")

	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("Username or email already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrEmailRequired is returned by ForgotPassword for a blank email.
	ErrEmailRequired = errors.New("Email is required")

	// ErrEmailNotFound is returned by ForgotPassword for an unregistered email.
	ErrEmailNotFound = errors.New("Email not found")

	// ErrPasswordTooLong is returned when a new password exceeds what bcrypt can hash.
	ErrPasswordTooLong = errors.New("Password must be at most 72 bytes")

	// ErrResetFieldsRequired is returned by ResetPassword when token or password is blank.
	ErrResetFieldsRequired = errors.New("Token and new password are required")

	// ErrInvalidResetToken is returned for unknown, expired or already used reset tokens.
	ErrInvalidResetToken = errors.New("Invalid or expired token")

	// ErrAuthFailed is returned when a bearer token cannot be verified or the
	// user lookup fails.
	ErrAuthFailed = errors.New("Authentication failed")

	// ErrUnknownUser is returned when a valid token names a user that no longer exists.
	ErrUnknownUser = errors.New("Invalid token")
)

// Doubt and response errors.
var (
	ErrDoubtFieldsRequired    = errors.New("Subject and description required")
	ErrResponseFieldsRequired = errors.New("Doubt ID and message required")
	ErrMessageRequired        = errors.New("Message is required")
	ErrDoubtNotFound          = errors.New("Doubt not found")

	// ErrSelfResponse is returned when a user responds to their own doubt while
	// self-responses are disabled.
	ErrSelfResponse = errors.New("Cannot respond to your own doubt")
)

// ErrForbidden is returned when a caller acts on another user's resources.
var ErrForbidden = errors.New("Forbidden")
