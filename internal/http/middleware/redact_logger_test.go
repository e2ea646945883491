package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"id=123e4567-e89b-12d3-a456-426614174000": "id=[REDACTED:id]",
		"mail=alice@x.com":                     "mail=[REDACTED:email]",
		"mail=alice%40x.com":                   "mail=[REDACTED:email]",
		"call=212-555-1212":                    "call=[REDACTED:phone]",
		"t=" + strings.Repeat("ab", 32):        "t=[REDACTED:token]",
		"page=2":                               "page=2",
	}
	for in, want := range cases {
		if got := redact(in); got != want {
			t.Errorf("redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactQuery_MasksSensitiveParams(t *testing.T) {
	params := lowerSet([]string{"token"}, []string{"Secret"})
	got := redactQuery("token=abc&secret=xyz&user_id=bob&x=alice@x.com", params)
	want := "token=[REDACTED]&secret=[REDACTED]&user_id=bob&x=[REDACTED:email]"
	if got != want {
		t.Fatalf("redactQuery = %q, want %q", got, want)
	}
}

func TestRedactingLogger_ScrubsHeadersAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/notifications", func(c *gin.Context) {
		c.Set(userIDKey, "alice")
		LoggerFrom(c).Info().Msg("handler")
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/notifications?user_id=alice&email=alice@x.com&token=deadbeef", nil)
	req.Header.Set("Authorization", "Bearer secret.jwt.value")
	req.Header.Set("X-Api-Key", "k")
	req.Header.Set("X-Contact", "bob@x.edu")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	out := buf.String()
	for _, leaked := range []string{"secret.jwt.value", "alice@x.com", "deadbeef", "bob@x.edu"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, out)
		}
	}

	lines := logLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0]["message"] != "handler" || lines[0]["request_id"] == "" {
		t.Fatalf("scoped logger not attached: %v", lines[0])
	}
	access := lines[1]
	if access["message"] != "http_request" || access["user_id"] != "alice" || access["level"] != "info" {
		t.Fatalf("unexpected access line: %v", access)
	}
	headers, _ := access["headers"].(map[string]any)
	if headers["Authorization"] != "[REDACTED]" || headers["X-Api-Key"] != "[REDACTED]" {
		t.Fatalf("headers not masked: %v", headers)
	}
	if lines[2]["level"] != "error" {
		t.Fatalf("5xx should log at error: %v", lines[2])
	}
}
