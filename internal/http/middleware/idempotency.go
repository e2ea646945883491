// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for resource-creating POSTs.
// IdempotencyValidator validates the header, scopes it to the route (and its
// :id parameter), and asks a lookup whether the same caller already completed
// the same request. On a hit it marks the request as a replay and records the
// id of the resource created the first time; the handler then answers with
// that resource instead of creating a new one.
//
// Run it after Auth so lookups are per user, and before the rate limiter so
// replays are not throttled.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client-chosen key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on replayed responses.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey      = "idem.key"
	ctxKeyIdemScope    = "idem.scope"
	ctxKeyIdemReplay   = "idem.replay"
	ctxKeyIdemResource = "idem.resource"

	defaultIdemMaxLen = 200
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions configures header validation. TTL is enforced by the
// lookup, not here.
type IdempotencyOptions struct {
	// MaxLen caps the key length; <= 0 means 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether userID already completed a request with
// key in scope, and which resource it created. Errors do not block the
// request; it is processed normally.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (resourceID uint, found bool, err error)

// IdempotencyValidator returns the middleware. Requests without the header,
// and non-POST requests, pass through untouched. A malformed key is
// rejected with 400.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemMaxLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      "invalid Idempotency-Key",
				"code":       "bad_idempotency_key",
				"request_id": RequestIDFrom(c),
			})
			return
		}

		scope := IdempotencyScope(c)
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemScope, scope)

		if lookup != nil {
			rid, found, err := lookup(c.Request.Context(), UserID(c), scope, key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyIdemResource, rid)
			}
		}
		c.Next()
	}
}

// IdempotencyScope names the operation a key applies to: the route pattern
// plus its :id parameter when present.
func IdempotencyScope(c *gin.Context) string {
	scope := c.Request.Method + " " + c.FullPath()
	if id := c.Param("id"); id != "" {
		scope += "#" + id
	}
	return scope
}

// GetIdempotencyKey returns the validated key and its scope.
func GetIdempotencyKey(c *gin.Context) (key, scope string, ok bool) {
	key = asString(c.Value(ctxKeyIdemKey))
	scope = asString(c.Value(ctxKeyIdemScope))
	return key, scope, key != ""
}

// IsReplay reports whether the request repeats an already completed one.
func IsReplay(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyIdemReplay).(bool)
	return b
}

// ReplayResource returns the id of the resource created by the original request.
func ReplayResource(c *gin.Context) (uint, bool) {
	id, ok := c.Value(ctxKeyIdemResource).(uint)
	return id, ok && IsReplay(c)
}
