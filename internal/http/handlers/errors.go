// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients may branch on them. The
// generic codes mirror HTTP semantics, the domain ones name the operation
// that failed with an internal error.
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-doubts-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeRegisterFailed = "registration_failed"
	ErrCodeLoginFailed    = "login_failed"
	ErrCodeResetFailed    = "reset_failed"
	ErrCodeCreateFailed   = "create_failed"
	ErrCodeListFailed     = "list_failed"
	ErrCodeUpdateFailed   = "update_failed"
)

// clientErrors maps service sentinels to their HTTP status and code. The
// response message is the sentinel's text.
var clientErrors = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrMissingFields, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrEmailRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrResetFieldsRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrPasswordTooLong, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidResetToken, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrDoubtFieldsRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrResponseFieldsRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrMessageRequired, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrSelfResponse, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrEmailNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrDoubtNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrDuplicateUser, http.StatusConflict, ErrCodeConflict},
}

// classify returns the status and code for a known service error.
func classify(err error) (status int, code string, known bool) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.status, ce.code, true
		}
	}
	return http.StatusInternalServerError, ErrCodeInternal, false
}
