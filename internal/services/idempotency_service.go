package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/repo"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService remembers which resource a keyed POST created so retries
// can be answered with the original result.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup returns the resource created for (userID, scope, key) if the record
// is still live at now.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (uint, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ResourceID, true, nil
}

// Remember records the outcome of a keyed request. A concurrent duplicate
// is not an error; the first writer wins.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key string, resourceID uint, status int) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
