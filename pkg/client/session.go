package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionKind tags a session change.
type SessionKind string

const (
	SessionLogin  SessionKind = "login"
	SessionLogout SessionKind = "logout"
)

// SessionEvent is delivered to subscribers on every login or logout. User is
// nil for logouts.
type SessionEvent struct {
	Kind SessionKind
	User *User
}

// SessionData is the persisted form of a session.
type SessionData struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SessionStore persists session data between runs. Load returns (nil, nil)
// when nothing has been stored.
type SessionStore interface {
	Load() (*SessionData, error)
	Save(*SessionData) error
	Clear() error
}

// Session holds the bearer token and the current user. It is safe for
// concurrent use.
type Session struct {
	mu    sync.RWMutex
	store SessionStore
	token string
	user  *User

	subMu  sync.Mutex
	subs   map[int]chan SessionEvent
	nextID int
}

// NewSession restores a session from store. A nil store keeps the session in
// memory only.
func NewSession(store SessionStore) (*Session, error) {
	if store == nil {
		store = &MemoryStore{}
	}
	s := &Session{store: store, subs: map[int]chan SessionEvent{}}

	data, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data != nil && data.Token != "" {
		s.token = data.Token
		s.user = data.User
	}
	return s, nil
}

// Token returns the bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool { return s.Token() != "" }

// Login stores token and user, persists them, and notifies subscribers.
func (s *Session) Login(token string, u User) error {
	if token == "" {
		return errors.New("client: empty token")
	}
	s.mu.Lock()
	s.token = token
	s.user = &u
	err := s.store.Save(&SessionData{Token: token, User: &u})
	s.mu.Unlock()

	s.emit(SessionEvent{Kind: SessionLogin, User: &u})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout drops the token and user and notifies subscribers.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	err := s.store.Clear()
	s.mu.Unlock()

	s.emit(SessionEvent{Kind: SessionLogout})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Subscribe returns a channel of session changes and a cancel func that
// closes it. Events are dropped for subscribers that fall behind.
func (s *Session) Subscribe() (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 4)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) emit(ev SessionEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// MemoryStore keeps session data in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data *SessionData
}

func (m *MemoryStore) Load() (*SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	cp := *m.data
	return &cp, nil
}

func (m *MemoryStore) Save(d *SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.data = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// FileStore keeps session data in a JSON file readable only by its owner.
type FileStore struct {
	Path string
}

// DefaultSessionPath is $HOME/.doubtdesk/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".doubtdesk", "session.json"), nil
}

func (f FileStore) Load() (*SessionData, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d SessionData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return &d, nil
}

// Save writes through a temp file and rename so readers never see a partial
// file.
func (f FileStore) Save(d *SessionData) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
