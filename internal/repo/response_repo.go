package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

// CreateResponse inserts a response row. Foreign keys guarantee the doubt and
// responder exist.
func CreateResponse(ctx context.Context, db *gorm.DB, r *domain.Response) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetResponse fetches a response by id.
func GetResponse(ctx context.Context, db *gorm.DB, id uint) (*domain.Response, error) {
	var r domain.Response
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResponses returns the responses to doubtID with each responder's name,
// newest first.
func ListResponses(ctx context.Context, db *gorm.DB, doubtID uint) ([]domain.ResponseView, error) {
	out := []domain.ResponseView{}
	err := db.WithContext(ctx).
		Table("responses AS r").
		Select("r.id, r.doubt_id, r.responder_id, r.message, r.contact_info, r.created_at, u.name AS responder_name").
		Joins("JOIN users u ON u.user_id = r.responder_id").
		Where("r.doubt_id = ?", doubtID).
		Order("r.created_at DESC, r.id DESC").
		Scan(&out).Error
	return out, err
}

// CountResponses returns how many responses doubtID has.
func CountResponses(ctx context.Context, db *gorm.DB, doubtID uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Response{}).Where("doubt_id = ?", doubtID).Count(&n).Error
	return n, err
}
