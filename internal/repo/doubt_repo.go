// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Doubt model.
//
// Functions:
//
//   - CreateDoubt(ctx, db, d) -> error
//     Inserts a doubt owned by d.UserID with a UTC timestamp.
//
//   - GetDoubtView(ctx, db, id) -> *domain.DoubtView, error
//     Fetches one doubt joined with its author's name, or ErrNotFound.
//
//   - ListFeed(ctx, db, viewerID) -> []domain.DoubtView, error
//     Returns every doubt NOT owned by viewerID, newest first.
//
//   - ListOwnDoubts(ctx, db, ownerID) -> []domain.OwnDoubt, error
//     Returns the owner's doubts with a per-doubt response count, newest first.
//
//   - DoubtOwner(ctx, db, id) -> string, error
//     Returns the owning user_id of a doubt, or ErrNotFound.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

const doubtViewColumns = "d.id, d.user_id, d.subject, d.description, d.branch, d.location, d.created_at, u.name"

// CreateDoubt inserts a new doubt row. ID is assigned by the database.
func CreateDoubt(ctx context.Context, db *gorm.DB, d *domain.Doubt) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(d).Error
}

// GetDoubtView fetches a single doubt with the author's display name joined in.
func GetDoubtView(ctx context.Context, db *gorm.DB, id uint) (*domain.DoubtView, error) {
	var v domain.DoubtView
	res := db.WithContext(ctx).
		Table("doubts AS d").
		Select(doubtViewColumns).
		Joins("JOIN users u ON u.user_id = d.user_id").
		Where("d.id = ?", id).
		Limit(1).
		Scan(&v)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &v, nil
}

// ListFeed returns all doubts not owned by viewerID, newest first. It returns
// an empty slice when there are none.
func ListFeed(ctx context.Context, db *gorm.DB, viewerID string) ([]domain.DoubtView, error) {
	out := []domain.DoubtView{}
	err := db.WithContext(ctx).
		Table("doubts AS d").
		Select(doubtViewColumns).
		Joins("JOIN users u ON u.user_id = d.user_id").
		Where("d.user_id <> ?", viewerID).
		Order("d.created_at DESC, d.id DESC").
		Scan(&out).Error
	return out, err
}

// ListOwnDoubts returns ownerID's doubts with the number of responses each has
// received, newest first.
func ListOwnDoubts(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.OwnDoubt, error) {
	out := []domain.OwnDoubt{}
	err := db.WithContext(ctx).
		Table("doubts AS d").
		Select(doubtViewColumns + ", (SELECT COUNT(*) FROM responses r WHERE r.doubt_id = d.id) AS response_count").
		Joins("JOIN users u ON u.user_id = d.user_id").
		Where("d.user_id = ?", ownerID).
		Order("d.created_at DESC, d.id DESC").
		Scan(&out).Error
	return out, err
}

// DoubtOwner returns the user_id owning doubt id.
func DoubtOwner(ctx context.Context, db *gorm.DB, id uint) (string, error) {
	var d domain.Doubt
	err := db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).First(&d).Error
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return d.UserID, nil
}
