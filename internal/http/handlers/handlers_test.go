package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

// ---- fakes ----

type fakeAuth struct {
	result *services.AuthResult
	err    error
	link   string

	gotRegister services.RegisterInput
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	f.gotRegister = in
	return f.result, f.err
}
func (f *fakeAuth) Login(context.Context, string, string) (*services.AuthResult, error) {
	return f.result, f.err
}
func (f *fakeAuth) ForgotPassword(context.Context, string) (string, error) { return f.link, f.err }
func (f *fakeAuth) ResetPassword(context.Context, string, string) error    { return f.err }

type fakeDoubts struct {
	posted  *domain.Doubt
	view    *domain.DoubtView
	feed    []domain.DoubtView
	err     error
	getErr  error
	posts   int
	gotID   uint
	gotUser string
}

func (f *fakeDoubts) Post(_ context.Context, userID string, _ services.DoubtInput) (*domain.Doubt, error) {
	f.posts++
	f.gotUser = userID
	return f.posted, f.err
}
func (f *fakeDoubts) Feed(_ context.Context, viewer string) ([]domain.DoubtView, error) {
	f.gotUser = viewer
	return f.feed, f.err
}
func (f *fakeDoubts) Get(_ context.Context, id uint) (*domain.DoubtView, error) {
	f.gotID = id
	return f.view, f.getErr
}
func (f *fakeDoubts) Mine(context.Context, string) ([]domain.OwnDoubt, error) {
	return []domain.OwnDoubt{}, f.err
}

type fakeResponses struct {
	resp     *domain.Response
	err      error
	calls    int
	gotDoubt uint
	gotMsg   string
}

func (f *fakeResponses) Respond(_ context.Context, _ string, doubtID uint, msg string, _ *string) (*domain.Response, error) {
	f.calls++
	f.gotDoubt, f.gotMsg = doubtID, msg
	return f.resp, f.err
}
func (f *fakeResponses) Get(context.Context, uint) (*domain.Response, error) { return f.resp, nil }
func (f *fakeResponses) List(context.Context, uint) ([]domain.ResponseView, error) {
	return []domain.ResponseView{}, f.err
}

type fakeNotifications struct {
	updated   int64
	err       error
	gotTarget string
}

func (f *fakeNotifications) List(context.Context, string) ([]domain.Notification, error) {
	return []domain.Notification{}, f.err
}
func (f *fakeNotifications) MarkRead(context.Context, string, uint) (int64, error) {
	return f.updated, f.err
}
func (f *fakeNotifications) MarkAllRead(_ context.Context, _ string, target string) (int64, error) {
	f.gotTarget = target
	return f.updated, f.err
}
func (f *fakeNotifications) Unread(context.Context, string) (int64, error) { return f.updated, nil }

type fakeIdem struct {
	scope string
	key   string
	id    uint
}

func (f *fakeIdem) Remember(_ context.Context, _, scope, key string, id uint, _ int) error {
	f.scope, f.key, f.id = scope, key, id
	return nil
}

// ---- helpers ----

// asUser stands in for middleware.Auth.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(mw...)
	return r
}

func do(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

// ---- response helpers ----

func TestFail_EnvelopeAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		c.Set("logger", &logger)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "boom")
	})
	w := do(r, http.MethodGet, "/x", "", "X-Request-ID", "rid-1")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	e := decodeErr(t, w)
	if e.Error != "boom" || e.Code != ErrCodeInternal || e.RequestID != "rid-1" || e.Details != "" {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx should be logged at error level, got %q", buf.String())
	}
}

func TestInternalError_DetailsToggle(t *testing.T) {
	for _, expose := range []bool{false, true} {
		h := New(Deps{Auth: &fakeAuth{err: errors.New("disk full")}, ExposeErrorDetails: expose})
		r := newEngine()
		r.POST("/register", h.Register)

		w := do(r, http.MethodPost, "/register", `{"username":"a","password":"p","email":"a@x"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d", w.Code)
		}
		e := decodeErr(t, w)
		if e.Error != "Registration failed" {
			t.Fatalf("error=%q", e.Error)
		}
		if expose && e.Details != "disk full" {
			t.Fatalf("details should be exposed, got %q", e.Details)
		}
		if !expose && e.Details != "" {
			t.Fatalf("details should be hidden, got %q", e.Details)
		}
	}
}

// ---- auth ----

func TestAuthHandlers_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"register missing", "/register", `{}`, services.ErrMissingFields, 400, "All fields required"},
		{"register dup", "/register", `{"username":"a","password":"p","email":"e"}`, services.ErrDuplicateUser, 409, "Username or email already exists"},
		{"login bad", "/login", `{"username":"a","password":"p"}`, services.ErrInvalidCredentials, 401, "Invalid credentials"},
		{"login internal", "/login", `{"username":"a","password":"p"}`, errors.New("db"), 500, "Login failed"},
		{"forgot missing", "/forgot-password", `{}`, services.ErrEmailRequired, 400, "Email is required"},
		{"forgot unknown", "/forgot-password", `{"email":"x@y"}`, services.ErrEmailNotFound, 404, "Email not found"},
		{"reset stale", "/reset-password", `{"token":"t","newPassword":"n"}`, services.ErrInvalidResetToken, 400, "Invalid or expired token"},
		{"malformed", "/login", `{"username":`, nil, 400, "invalid JSON body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(Deps{Auth: &fakeAuth{err: tc.err}})
			r := newEngine()
			r.POST("/register", h.Register)
			r.POST("/login", h.Login)
			r.POST("/forgot-password", h.ForgotPassword)
			r.POST("/reset-password", h.ResetPassword)

			w := do(r, http.MethodPost, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.status, w.Body.String())
			}
			if e := decodeErr(t, w); e.Error != tc.msg {
				t.Fatalf("error=%q want %q", e.Error, tc.msg)
			}
		})
	}
}

func TestRegister_EmptyBodyReachesService(t *testing.T) {
	fa := &fakeAuth{err: services.ErrMissingFields}
	h := New(Deps{Auth: fa})
	r := newEngine()
	r.POST("/register", h.Register)

	req := httptest.NewRequest(http.MethodPost, "/register", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || decodeErr(t, w).Error != "All fields required" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestRegister_Created(t *testing.T) {
	fa := &fakeAuth{result: &services.AuthResult{Token: "tok", User: domain.User{UserID: "alice", Name: "alice", Password: "hash"}}}
	h := New(Deps{Auth: fa})
	r := newEngine()
	r.POST("/register", h.Register)

	w := do(r, http.MethodPost, "/register", `{"username":"alice","password":"p","email":"A@x.edu","branch":"CSE"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	if strings.Contains(w.Body.String(), "hash") {
		t.Fatalf("password leaked: %s", w.Body.String())
	}
	if fa.gotRegister.Branch == nil || *fa.gotRegister.Branch != "CSE" {
		t.Fatalf("branch not forwarded: %+v", fa.gotRegister)
	}
}

func TestForgotPassword_ReturnsLink(t *testing.T) {
	h := New(Deps{Auth: &fakeAuth{link: "http://app/reset?token=abc"}})
	r := newEngine()
	r.POST("/forgot-password", h.ForgotPassword)

	w := do(r, http.MethodPost, "/forgot-password", `{"email":"a@x"}`)
	var got ForgotPasswordResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if w.Code != 200 || got.Message != "Password reset link generated" || got.ResetLink != "http://app/reset?token=abc" {
		t.Fatalf("got %d %+v", w.Code, got)
	}
}

// ---- doubts ----

func TestGetDoubts_ByID(t *testing.T) {
	fd := &fakeDoubts{view: &domain.DoubtView{ID: 7, Name: "bob"}}
	h := New(Deps{Doubts: fd})
	r := newEngine(asUser("alice"))
	r.GET("/doubts", h.GetDoubts)

	if w := do(r, http.MethodGet, "/doubts?id=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status=%d", w.Code)
	}

	w := do(r, http.MethodGet, "/doubts?id=7", "")
	var v domain.DoubtView
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if w.Code != 200 || v.ID != 7 || fd.gotID != 7 {
		t.Fatalf("got %d %+v", w.Code, v)
	}

	fd.getErr = services.ErrDoubtNotFound
	w = do(r, http.MethodGet, "/doubts?id=8", "")
	if w.Code != http.StatusNotFound || decodeErr(t, w).Error != "Doubt not found" {
		t.Fatalf("missing doubt: %d %s", w.Code, w.Body.String())
	}
}

func TestGetDoubts_FeedUsesCaller(t *testing.T) {
	fd := &fakeDoubts{feed: []domain.DoubtView{}}
	h := New(Deps{Doubts: fd})
	r := newEngine(asUser("alice"))
	r.GET("/doubts", h.GetDoubts)

	w := do(r, http.MethodGet, "/doubts", "")
	if w.Code != 200 || strings.TrimSpace(w.Body.String()) != "[]" || fd.gotUser != "alice" {
		t.Fatalf("got %d %s viewer=%q", w.Code, w.Body.String(), fd.gotUser)
	}
}

func TestPostDoubt_RemembersAndReplays(t *testing.T) {
	fd := &fakeDoubts{
		posted: &domain.Doubt{ID: 3, Subject: "s"},
		view:   &domain.DoubtView{ID: 3, Subject: "s", Name: "alice"},
	}
	idem := &fakeIdem{}
	h := New(Deps{Doubts: fd, Idem: idem})

	replayed := false
	lookup := func(context.Context, string, string, string, time.Time) (uint, bool, error) {
		if replayed {
			return 3, true, nil
		}
		return 0, false, nil
	}
	r := newEngine(asUser("alice"), middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))
	r.POST("/doubts", h.PostDoubt)

	w := do(r, http.MethodPost, "/doubts", `{"subject":"s","description":"d"}`, "Idempotency-Key", "k-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("first post: %d %s", w.Code, w.Body.String())
	}
	if idem.key != "k-1" || idem.id != 3 || idem.scope != "POST /doubts" {
		t.Fatalf("remember got %+v", idem)
	}

	replayed = true
	w = do(r, http.MethodPost, "/doubts", `{"subject":"s","description":"d"}`, "Idempotency-Key", "k-1")
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay: %d headers=%v", w.Code, w.Header())
	}
	if fd.posts != 1 {
		t.Fatalf("replay must not create, posts=%d", fd.posts)
	}
}

// ---- responses ----

func TestPostResponse_Validation(t *testing.T) {
	fr := &fakeResponses{resp: &domain.Response{ID: 1}}
	h := New(Deps{Responses: fr})
	r := newEngine(asUser("bob"))
	r.POST("/responses", h.PostResponse)

	for _, body := range []string{`{}`, `{"doubt_id":5}`, `{"message":"hi"}`, `{"doubt_id":"x","message":"hi"}`} {
		w := do(r, http.MethodPost, "/responses", body)
		if w.Code != 400 || decodeErr(t, w).Error != "Doubt ID and message required" {
			t.Fatalf("%s: %d %s", body, w.Code, w.Body.String())
		}
	}
	if fr.calls != 0 {
		t.Fatalf("service should not be called on invalid input")
	}

	w := do(r, http.MethodPost, "/responses", `{"doubt_id":"5","message":"hi"}`)
	if w.Code != http.StatusCreated || fr.gotDoubt != 5 {
		t.Fatalf("string doubt_id: %d doubt=%d", w.Code, fr.gotDoubt)
	}
}

func TestPostDoubtResponse_PathAndErrors(t *testing.T) {
	fr := &fakeResponses{err: services.ErrSelfResponse}
	h := New(Deps{Responses: fr})
	r := newEngine(asUser("alice"))
	r.POST("/doubts/:id/responses", h.PostDoubtResponse)

	if w := do(r, http.MethodPost, "/doubts/zero/responses", `{"message":"m"}`); w.Code != 400 {
		t.Fatalf("bad id: %d", w.Code)
	}

	w := do(r, http.MethodPost, "/doubts/9/responses", `{"message":"m"}`)
	if w.Code != 400 || decodeErr(t, w).Error != "Cannot respond to your own doubt" || fr.gotDoubt != 9 {
		t.Fatalf("self: %d %s", w.Code, w.Body.String())
	}

	fr.err = services.ErrDoubtNotFound
	if w := do(r, http.MethodPost, "/doubts/9/responses", `{"message":"m"}`); w.Code != 404 {
		t.Fatalf("missing doubt: %d", w.Code)
	}
}

// ---- notifications ----

func TestMarkAllRead_ForbiddenAndCount(t *testing.T) {
	fn := &fakeNotifications{updated: 2}
	h := New(Deps{Notifications: fn})
	r := newEngine(asUser("alice"))
	r.POST("/notifications/mark-all-read", h.MarkAllNotificationsRead)
	r.POST("/notifications/:id/read", h.MarkNotificationRead)

	w := do(r, http.MethodPost, "/notifications/mark-all-read", "")
	if w.Code != 200 || strings.TrimSpace(w.Body.String()) != `{"updated":2}` {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	fn.err = services.ErrForbidden
	w = do(r, http.MethodPost, "/notifications/mark-all-read?user_id=bob", "")
	if w.Code != http.StatusForbidden || decodeErr(t, w).Error != "Forbidden" || fn.gotTarget != "bob" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodPost, "/notifications/abc/read", ""); w.Code != 400 {
		t.Fatalf("bad id: %d", w.Code)
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]uint{"1": 1, " 42 ": 42} {
		if got, err := parseID(in); err != nil || got != want {
			t.Fatalf("parseID(%q) = %d, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "0", "-1", "1.5", "x"} {
		if _, err := parseID(in); err == nil {
			t.Fatalf("parseID(%q) should fail", in)
		}
	}
}
