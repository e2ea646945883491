// Package client is a typed Go client for the doubtdesk HTTP API.
//
// A Client carries a Session. Register and Login fill it; every protected
// call sends its token as a Bearer header. Server errors come back as
// *APIError carrying the status and the server's message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultBaseURL matches the server's default listen address and base path.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

// Client talks to one doubtdesk server.
type Client struct {
	baseURL   string
	http      *http.Client
	session   *Session
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithSession attaches an existing session.
func WithSession(s *Session) Option { return func(c *Client) { c.session = s } }

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// CallOption adjusts a single request.
type CallOption func(*http.Request)

// WithIdempotencyKey makes a create call safe to retry.
func WithIdempotencyKey(key string) CallOption {
	return func(r *http.Request) { r.Header.Set("Idempotency-Key", key) }
}

// New returns a client for baseURL (DefaultBaseURL when empty). Without
// WithSession the session lives in memory.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "doubtdesk-client",
	}
	for _, o := range opts {
		o(c)
	}
	if c.session == nil {
		c.session, _ = NewSession(nil)
	}
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Register creates an account and logs in as it.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/register", nil, in, &out, false); err != nil {
		return nil, err
	}
	if err := c.session.Login(out.Token, out.User); err != nil {
		return &out, err
	}
	return &out, nil
}

// Login authenticates and stores the session.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out, false); err != nil {
		return nil, err
	}
	if err := c.session.Login(out.Token, out.User); err != nil {
		return &out, err
	}
	return &out, nil
}

// Logout forgets the session locally. Tokens are stateless so the server is
// not contacted.
func (c *Client) Logout() error { return c.session.Logout() }

// ForgotPassword asks for a reset link for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*ResetLink, error) {
	var out ResetLink
	if err := c.do(ctx, http.MethodPost, "/forgot-password", nil, map[string]string{"email": email}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword redeems a reset token and returns the server message.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "newPassword": newPassword}
	var out message
	if err := c.do(ctx, http.MethodPost, "/reset-password", nil, body, &out, false); err != nil {
		return "", err
	}
	return out.Message, nil
}

// PostDoubt creates a doubt owned by the session user.
func (c *Client) PostDoubt(ctx context.Context, in DoubtInput, opts ...CallOption) (*Doubt, error) {
	var out Doubt
	if err := c.do(ctx, http.MethodPost, "/doubts", nil, in, &out, true, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDoubts lists other users' doubts, newest first.
func (c *Client) GetDoubts(ctx context.Context) ([]Doubt, error) {
	var out []Doubt
	if err := c.do(ctx, http.MethodGet, "/doubts", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDoubt fetches one doubt with its author's name.
func (c *Client) GetDoubt(ctx context.Context, id uint) (*Doubt, error) {
	q := url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}
	var out Doubt
	if err := c.do(ctx, http.MethodGet, "/doubts", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyDoubts lists the session user's doubts with response counts.
func (c *Client) GetMyDoubts(ctx context.Context) ([]OwnDoubt, error) {
	var out []OwnDoubt
	if err := c.do(ctx, http.MethodGet, "/my-doubts", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// PostResponse answers a doubt through the flat /responses route.
func (c *Client) PostResponse(ctx context.Context, doubtID uint, in ResponseInput, opts ...CallOption) (*Response, error) {
	body := struct {
		DoubtID uint `json:"doubt_id"`
		ResponseInput
	}{doubtID, in}
	var out Response
	if err := c.do(ctx, http.MethodPost, "/responses", nil, body, &out, true, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostDoubtResponse answers a doubt through /doubts/{id}/responses.
func (c *Client) PostDoubtResponse(ctx context.Context, doubtID uint, in ResponseInput, opts ...CallOption) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodPost, doubtPath(doubtID), nil, in, &out, true, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResponses lists the answers to a doubt, newest first.
func (c *Client) GetResponses(ctx context.Context, doubtID uint) ([]Response, error) {
	var out []Response
	if err := c.do(ctx, http.MethodGet, doubtPath(doubtID), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNotifications lists the session user's notifications, newest first.
func (c *Client) GetNotifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead marks one notification read and returns how many rows
// changed (0 when it is not the caller's or already read).
func (c *Client) MarkNotificationRead(ctx context.Context, id uint) (int64, error) {
	var out updated
	p := "/notifications/" + strconv.FormatUint(uint64(id), 10) + "/read"
	if err := c.do(ctx, http.MethodPost, p, nil, nil, &out, true); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// MarkAllNotificationsRead marks every unread notification of the session
// user read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out updated
	if err := c.do(ctx, http.MethodPost, "/notifications/mark-all-read", nil, nil, &out, true); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// StreamNotifications opens the live notification websocket. Events are
// delivered on the returned channel until ctx ends or the server hangs up;
// the channel is then closed.
func (c *Client) StreamNotifications(ctx context.Context) (<-chan StreamEvent, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	u, err := url.Parse(c.baseURL + "/notifications/stream")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"access_token": {token}}.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{"User-Agent": {c.userAgent}})
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			defer resp.Body.Close()
			return nil, decodeError(resp)
		}
		return nil, fmt.Errorf("dial stream: %w", err)
	}

	events := make(chan StreamEvent)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var ev StreamEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// TokenFromLink extracts the token query parameter from a reset link. A bare
// token is returned unchanged.
func TokenFromLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") {
		if link == "" {
			return "", fmt.Errorf("client: empty reset token")
		}
		return link, nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("client: parse reset link: %w", err)
	}
	tok := u.Query().Get("token")
	if tok == "" {
		return "", fmt.Errorf("client: reset link has no token")
	}
	return tok, nil
}

func doubtPath(id uint) string {
	return "/doubts/" + strconv.FormatUint(uint64(id), 10) + "/responses"
}

// do sends one JSON request. authed calls fail fast without a session.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any, authed bool, opts ...CallOption) error {
	token := c.session.Token()
	if authed && token == "" {
		return ErrNotLoggedIn
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, o := range opts {
		o(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
