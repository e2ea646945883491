// Package handlers wires HTTP endpoints to the service layer.
//
// Handlers are transport-thin: they bind and validate input, call a service
// through the narrow interfaces below, and translate the outcome into JSON.
// The authenticated caller is read from the context populated by
// middleware.Auth.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

// AuthService covers account registration, login and password reset.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, username, password string) (*services.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// DoubtService posts and lists doubts.
type DoubtService interface {
	Post(ctx context.Context, userID string, in services.DoubtInput) (*domain.Doubt, error)
	Feed(ctx context.Context, viewerID string) ([]domain.DoubtView, error)
	Get(ctx context.Context, id uint) (*domain.DoubtView, error)
	Mine(ctx context.Context, userID string) ([]domain.OwnDoubt, error)
}

// ResponseService answers doubts.
type ResponseService interface {
	Respond(ctx context.Context, responderID string, doubtID uint, message string, contact *string) (*domain.Response, error)
	Get(ctx context.Context, id uint) (*domain.Response, error)
	List(ctx context.Context, doubtID uint) ([]domain.ResponseView, error)
}

// NotificationService reads and acknowledges notifications.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID string, id uint) (int64, error)
	MarkAllRead(ctx context.Context, userID, target string) (int64, error)
	Unread(ctx context.Context, userID string) (int64, error)
}

// IdempotencyStore records keyed POST outcomes for replay.
type IdempotencyStore interface {
	Remember(ctx context.Context, userID, scope, key string, resourceID uint, status int) error
}

// Subscriber opens a live notification feed for one user.
type Subscriber interface {
	Subscribe(userID string) (<-chan domain.Notification, func())
}

// Deps bundles what New needs. Idem and Hub are optional.
type Deps struct {
	Auth          AuthService
	Doubts        DoubtService
	Responses     ResponseService
	Notifications NotificationService
	Idem          IdempotencyStore
	Hub           Subscriber

	// ExposeErrorDetails echoes internal error text in 5xx bodies.
	ExposeErrorDetails bool
	// AllowedOrigins gates the websocket handshake; empty allows any origin.
	AllowedOrigins []string
}

// Handlers groups every HTTP endpoint.
type Handlers struct {
	auth          AuthService
	doubts        DoubtService
	responses     ResponseService
	notifications NotificationService
	idem          IdempotencyStore
	hub           Subscriber

	exposeDetails  bool
	allowedOrigins map[string]struct{}
}

// New returns Handlers bound to d.
func New(d Deps) *Handlers {
	h := &Handlers{
		auth:          d.Auth,
		doubts:        d.Doubts,
		responses:     d.Responses,
		notifications: d.Notifications,
		idem:          d.Idem,
		hub:           d.Hub,
		exposeDetails: d.ExposeErrorDetails,
	}
	if len(d.AllowedOrigins) > 0 {
		h.allowedOrigins = make(map[string]struct{}, len(d.AllowedOrigins))
		for _, o := range d.AllowedOrigins {
			h.allowedOrigins[o] = struct{}{}
		}
	}
	return h
}

// failWith answers a service error: known sentinels keep their own message,
// anything else becomes a 500 with msg.
func (h *Handlers) failWith(c *gin.Context, err error, code, msg string) {
	if status, ccode, known := classify(err); known {
		fail(c, status, ccode, err.Error())
		return
	}
	internalError(c, h.exposeDetails, code, msg, err)
}

// remember stores the outcome of a keyed POST. Failures are logged only.
func (h *Handlers) remember(c *gin.Context, resourceID uint, status int) {
	if h.idem == nil {
		return
	}
	key, scope, ok := middleware.GetIdempotencyKey(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
	defer cancel()
	if err := h.idem.Remember(ctx, middleware.UserID(c), scope, key, resourceID, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
	}
}

// bindJSON decodes the body into dst. An empty body leaves dst zeroed so the
// service reports the missing fields; malformed JSON is a 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

var errBadID = errors.New("invalid id")

// parseID parses a positive integer id from a path or query value.
func parseID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errBadID
	}
	return uint(n), nil
}
