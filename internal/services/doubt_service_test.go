package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

// ---------- DoubtService ----------

func TestDoubtService_Post(t *testing.T) {
	db := newSvcDB(t)
	register(t, newAuthSvc(db), "alice")
	s := &DoubtService{DB: db}
	ctx := context.Background()

	before := testutil.ToFloat64(doubtsCreated)
	d, err := s.Post(ctx, "alice", DoubtInput{Subject: " Math ", Description: "Help", Location: strptr("")})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if d.ID == 0 || d.Subject != "Math" || d.UserID != "alice" || d.Location != nil {
		t.Fatalf("unexpected doubt %+v", d)
	}
	if got := testutil.ToFloat64(doubtsCreated); got != before+1 {
		t.Fatalf("doubts counter = %v, want %v", got, before+1)
	}

	if _, err := s.Post(ctx, "alice", DoubtInput{Subject: "x"}); !errors.Is(err, ErrDoubtFieldsRequired) {
		t.Fatalf("want ErrDoubtFieldsRequired, got %v", err)
	}
}

func TestDoubtService_FeedGetMine(t *testing.T) {
	db := newSvcDB(t)
	a := newAuthSvc(db)
	register(t, a, "alice")
	register(t, a, "bob")
	s := &DoubtService{DB: db}
	ctx := context.Background()

	mine := postDoubt(t, db, "alice", "Math")
	theirs := postDoubt(t, db, "bob", "Physics")

	feed, err := s.Feed(ctx, "alice")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != theirs.ID || feed[0].Name != "bob" {
		t.Fatalf("alice's feed should contain only bob's doubt: %+v", feed)
	}

	v, err := s.Get(ctx, mine.ID)
	if err != nil || v.Name != "alice" {
		t.Fatalf("Get: %v %+v", err, v)
	}
	if _, err := s.Get(ctx, 999); !errors.Is(err, ErrDoubtNotFound) {
		t.Fatalf("want ErrDoubtNotFound, got %v", err)
	}

	if _, err := (&ResponseService{DB: db}).Respond(ctx, "bob", mine.ID, "Sure", nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	own, err := s.Mine(ctx, "alice")
	if err != nil || len(own) != 1 || own[0].ResponseCount != 1 {
		t.Fatalf("Mine: %v %+v", err, own)
	}
}

// ---------- ResponseService ----------

func TestResponseService_Respond_NotifiesOwner(t *testing.T) {
	db := newSvcDB(t)
	a := newAuthSvc(db)
	register(t, a, "alice")
	register(t, a, "bob")
	d := postDoubt(t, db, "alice", "Math")

	hub := &recordingHub{}
	s := &ResponseService{DB: db, Hub: hub}
	ctx := context.Background()

	baseResp := testutil.ToFloat64(responsesCreated)
	baseNote := testutil.ToFloat64(notificationsCreated)

	r, err := s.Respond(ctx, "bob", d.ID, "  Sure, happy to help with this one  ", strptr("bob@x.com"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if r.ID == 0 || r.Message != "Sure, happy to help with this one" || r.ContactInfo == nil {
		t.Fatalf("unexpected response %+v", r)
	}

	notes, _ := repo.ListNotifications(ctx, db, "alice")
	if len(notes) != 1 {
		t.Fatalf("expected one notification for alice, got %d", len(notes))
	}
	want := `New response to your doubt "Sure, happy to help ..."`
	if notes[0].Message != want || notes[0].Type != domain.NotificationTypeResponse || notes[0].IsRead {
		t.Fatalf("unexpected notification %+v", notes[0])
	}
	if len(hub.got) != 1 || hub.got[0].ID != notes[0].ID {
		t.Fatalf("hub should receive the committed notification: %+v", hub.got)
	}
	if testutil.ToFloat64(responsesCreated) != baseResp+1 || testutil.ToFloat64(notificationsCreated) != baseNote+1 {
		t.Fatalf("counters not incremented")
	}

	list, err := s.List(ctx, d.ID)
	if err != nil || len(list) != 1 || list[0].ResponderName != "bob" {
		t.Fatalf("List: %v %+v", err, list)
	}
}

func TestResponseService_Respond_SelfResponseRejected(t *testing.T) {
	db := newSvcDB(t)
	register(t, newAuthSvc(db), "alice")
	d := postDoubt(t, db, "alice", "Math")
	hub := &recordingHub{}
	s := &ResponseService{DB: db, Hub: hub}
	ctx := context.Background()

	if _, err := s.Respond(ctx, "alice", d.ID, "me", nil); !errors.Is(err, ErrSelfResponse) {
		t.Fatalf("want ErrSelfResponse, got %v", err)
	}
	if n, _ := repo.CountResponses(ctx, db, d.ID); n != 0 {
		t.Fatalf("rejected response must not be stored")
	}
	if len(hub.got) != 0 {
		t.Fatalf("nothing should be published")
	}
}

func TestResponseService_Respond_SelfResponseAllowed(t *testing.T) {
	db := newSvcDB(t)
	register(t, newAuthSvc(db), "alice")
	d := postDoubt(t, db, "alice", "Math")
	hub := &recordingHub{}
	s := &ResponseService{DB: db, Hub: hub, AllowSelfResponse: true}
	ctx := context.Background()

	if _, err := s.Respond(ctx, "alice", d.ID, "answering myself", nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if n, _ := repo.CountResponses(ctx, db, d.ID); n != 1 {
		t.Fatalf("self response should be stored")
	}
	if notes, _ := repo.ListNotifications(ctx, db, "alice"); len(notes) != 0 || len(hub.got) != 0 {
		t.Fatalf("owner must not be notified of their own response")
	}
}

func TestResponseService_Respond_Validation(t *testing.T) {
	db := newSvcDB(t)
	register(t, newAuthSvc(db), "bob")
	s := &ResponseService{DB: db}
	ctx := context.Background()

	if _, err := s.Respond(ctx, "bob", 0, "hi", nil); !errors.Is(err, ErrResponseFieldsRequired) {
		t.Fatalf("zero doubt id: want ErrResponseFieldsRequired, got %v", err)
	}
	if _, err := s.Respond(ctx, "bob", 1, "   ", nil); !errors.Is(err, ErrMessageRequired) {
		t.Fatalf("blank message: want ErrMessageRequired, got %v", err)
	}
	if _, err := s.Respond(ctx, "bob", 42, "hi", nil); !errors.Is(err, ErrDoubtNotFound) {
		t.Fatalf("unknown doubt: want ErrDoubtNotFound, got %v", err)
	}
}

func TestNotificationText(t *testing.T) {
	if got := NotificationText("short"); got != `New response to your doubt "short..."` {
		t.Fatalf("short = %q", got)
	}
	long := strings.Repeat("é", 30)
	got := NotificationText(long)
	if !strings.Contains(got, strings.Repeat("é", 20)+`..."`) || strings.Contains(got, strings.Repeat("é", 21)) {
		t.Fatalf("preview should be 20 runes: %q", got)
	}
}

// ---------- NotificationService ----------

func TestNotificationService(t *testing.T) {
	db := newSvcDB(t)
	a := newAuthSvc(db)
	register(t, a, "alice")
	register(t, a, "bob")
	d := postDoubt(t, db, "alice", "Math")
	rs := &ResponseService{DB: db}
	ctx := context.Background()
	for _, m := range []string{"one", "two"} {
		if _, err := rs.Respond(ctx, "bob", d.ID, m, nil); err != nil {
			t.Fatalf("Respond: %v", err)
		}
	}

	s := &NotificationService{DB: db}
	list, err := s.List(ctx, "alice")
	if err != nil || len(list) != 2 || !strings.Contains(list[0].Message, "two") {
		t.Fatalf("List should be newest first: %v %+v", err, list)
	}

	if n, _ := s.MarkRead(ctx, "bob", list[0].ID); n != 0 {
		t.Fatalf("bob must not mark alice's notification, changed %d", n)
	}
	if n, err := s.MarkRead(ctx, "alice", list[0].ID); err != nil || n != 1 {
		t.Fatalf("MarkRead: %d %v", n, err)
	}
	if u, _ := s.Unread(ctx, "alice"); u != 1 {
		t.Fatalf("Unread = %d", u)
	}

	if _, err := s.MarkAllRead(ctx, "alice", "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if n, err := s.MarkAllRead(ctx, "alice", "alice"); err != nil || n != 1 {
		t.Fatalf("MarkAllRead: %d %v", n, err)
	}
	if n, err := s.MarkAllRead(ctx, "alice", ""); err != nil || n != 0 {
		t.Fatalf("MarkAllRead again: %d %v", n, err)
	}
}
