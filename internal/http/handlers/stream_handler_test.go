package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/notify"
)

func streamServer(t *testing.T, hub *notify.Hub, origins ...string) string {
	t.Helper()
	h := New(Deps{
		Notifications:  &fakeNotifications{updated: 2},
		Hub:            hub,
		AllowedOrigins: origins,
	})
	r := newEngine(asUser("alice"))
	r.GET("/notifications/stream", h.StreamNotifications)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/notifications/stream"
}

func TestStreamNotifications_PushesToSubscriber(t *testing.T) {
	hub := notify.NewHub(notify.DefaultBuffer)
	url := streamServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello StreamEvent
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if hello.Type != "connected" || hello.Unread == nil || *hello.Unread != 2 {
		t.Fatalf("welcome = %+v", hello)
	}

	// The subscription is registered before the welcome frame is written.
	if n := hub.Subscribers("alice"); n != 1 {
		t.Fatalf("subscribers=%d, want 1", n)
	}

	hub.Publish(domain.Notification{ID: 9, UserID: "bob", Message: "not mine"})
	hub.Publish(domain.Notification{ID: 10, UserID: "alice", Message: "yours"})

	var ev StreamEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != "notification" || ev.Notification == nil || ev.Notification.ID != 10 {
		t.Fatalf("event = %+v", ev)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("alice") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription not released after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamNotifications_OriginAllowList(t *testing.T) {
	url := streamServer(t, notify.NewHub(1), "http://allowed.test")

	hdr := http.Header{"Origin": {"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	if err == nil {
		t.Fatalf("foreign origin should be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %+v", resp)
	}

	hdr.Set("Origin", "http://allowed.test")
	conn, _, err := websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestStreamNotifications_NoHub(t *testing.T) {
	h := New(Deps{})
	r := newEngine(asUser("alice"))
	r.GET("/notifications/stream", h.StreamNotifications)

	w := do(r, http.MethodGet, "/notifications/stream", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}
