// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (gorm.ErrRecordNotFound).
//   - Unique violations (user_id or email) surface as ErrDuplicate.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

// CreateUser inserts a user row. The password must already be hashed.
// A clash on user_id or email returns ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetUserByID fetches a user by its username.
func GetUserByID(ctx context.Context, db *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by (already case-folded) email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UserExists reports whether a user with userID exists.
func UserExists(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

// UpdatePassword overwrites the stored password hash. It returns ErrNotFound
// when no row matched.
func UpdatePassword(ctx context.Context, db *gorm.DB, userID, hash string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ?", userID).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user; doubts, responses, notifications and pending
// resets go with it through ON DELETE CASCADE.
func DeleteUser(ctx context.Context, db *gorm.DB, userID string) error {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isNotFound is a small helper shared by the repo functions below.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
