package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotLoggedIn is returned by calls that need a session when none is held.
var ErrNotLoggedIn = errors.New("client: not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status    int
	Message   string
	Code      string
	Details   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// decodeError turns an error body into an *APIError. Bodies that are not the
// JSON envelope fall back to the status text.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env struct {
		Error     string `json:"error"`
		Code      string `json:"code"`
		Details   string `json:"details"`
		RequestID string `json:"request_id"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		apiErr.Message = env.Error
		apiErr.Code = env.Code
		apiErr.Details = env.Details
		apiErr.RequestID = env.RequestID
	} else {
		apiErr.Message = "Request failed"
		if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
			apiErr.Details = text
		}
	}
	if apiErr.RequestID == "" {
		apiErr.RequestID = resp.Header.Get("X-Request-ID")
	}
	return apiErr
}
