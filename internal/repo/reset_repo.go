package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

// CreatePasswordReset stores a reset token for userID valid until expiresAt.
func CreatePasswordReset(ctx context.Context, db *gorm.DB, userID, token string, expiresAt time.Time) (*domain.PasswordReset, error) {
	pr := &domain.PasswordReset{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(pr).Error; err != nil {
		if IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return pr, nil
}

// FindValidReset returns the reset row for token when it has not expired at
// now. Unknown and expired tokens both yield ErrNotFound.
func FindValidReset(ctx context.Context, db *gorm.DB, token string, now time.Time) (*domain.PasswordReset, error) {
	var pr domain.PasswordReset
	err := db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now.UTC()).
		First(&pr).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// DeleteResetsForUser removes every outstanding reset token of userID.
func DeleteResetsForUser(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.PasswordReset{})
	return res.RowsAffected, res.Error
}

// PurgeExpiredResets deletes tokens that expired before now.
func PurgeExpiredResets(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.PasswordReset{})
	return res.RowsAffected, res.Error
}
