package client

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStore_RoundTripAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := FileStore{Path: path}

	if d, err := store.Load(); err != nil || d != nil {
		t.Fatalf("empty load d=%v err=%v", d, err)
	}

	s, err := NewSession(store)
	if err != nil {
		t.Fatal(err)
	}
	if s.LoggedIn() {
		t.Fatalf("fresh session should be logged out")
	}
	if err := s.Login("tok-1", User{UserID: "alice", Name: "alice"}); err != nil {
		t.Fatal(err)
	}

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := fi.Mode().Perm(); perm != 0o600 {
			t.Fatalf("perm=%o", perm)
		}
	}

	restored, err := NewSession(store)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Token() != "tok-1" {
		t.Fatalf("token=%q", restored.Token())
	}
	if u, ok := restored.User(); !ok || u.UserID != "alice" {
		t.Fatalf("user=%+v ok=%v", u, ok)
	}

	if err := restored.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still present: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing twice: %v", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSession(FileStore{Path: path}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSession_SubscribeAndCancel(t *testing.T) {
	s, err := NewSession(&MemoryStore{})
	if err != nil {
		t.Fatal(err)
	}
	a, cancelA := s.Subscribe()
	b, cancelB := s.Subscribe()

	if err := s.Login("", User{}); err == nil {
		t.Fatalf("empty token accepted")
	}
	if err := s.Login("t", User{UserID: "u"}); err != nil {
		t.Fatal(err)
	}
	for _, ch := range []<-chan SessionEvent{a, b} {
		if ev := <-ch; ev.Kind != SessionLogin || ev.User.UserID != "u" {
			t.Fatalf("event=%+v", ev)
		}
	}

	cancelB()
	cancelB()
	if _, ok := <-b; ok {
		t.Fatalf("cancelled channel still open")
	}

	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if ev := <-a; ev.Kind != SessionLogout || ev.User != nil {
		t.Fatalf("event=%+v", ev)
	}
	cancelA()
}

func TestSession_SlowSubscriberDoesNotBlock(t *testing.T) {
	s, _ := NewSession(nil)
	_, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		if err := s.Login("t", User{UserID: "u"}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestTokenFromLink(t *testing.T) {
	cases := []struct {
		in, want string
		wantErr  bool
	}{
		{"http://app.test/reset?token=abc123", "abc123", false},
		{"  abc123 ", "abc123", false},
		{"http://app.test/reset?x=1", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := TokenFromLink(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("TokenFromLink(%q) = %q, %v", tc.in, got, err)
		}
	}
}
