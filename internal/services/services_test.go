package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-doubts-backend/internal/auth"
	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repo.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	return db
}

func newAuthSvc(db *gorm.DB) *AuthService {
	return &AuthService{
		DB:            db,
		Tokens:        auth.NewTokenIssuer("test-secret", time.Hour),
		BcryptCost:    4,
		ResetTTL:      time.Hour,
		ResetLinkBase: "http://app.test/reset",
	}
}

func register(t *testing.T, s *AuthService, name string) *AuthResult {
	t.Helper()
	res, err := s.Register(context.Background(), RegisterInput{
		Username: name, Password: "pw", Email: name + "@x.com",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res
}

func postDoubt(t *testing.T, db *gorm.DB, owner, subject string) *domain.Doubt {
	t.Helper()
	d, err := (&DoubtService{DB: db}).Post(context.Background(), owner, DoubtInput{Subject: subject, Description: "Help"})
	if err != nil {
		t.Fatalf("post doubt: %v", err)
	}
	return d
}

type recordingHub struct {
	got []domain.Notification
}

func (h *recordingHub) Publish(n domain.Notification) { h.got = append(h.got, n) }

func strptr(s string) *string { return &s }
