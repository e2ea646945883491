package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
)

// CreateNotification inserts an unread notification.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns userID's notifications, newest first.
func ListNotifications(ctx context.Context, db *gorm.DB, userID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flags one of userID's notifications as read and
// returns the number of rows changed (0 when missing, foreign, or already read).
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id uint, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkAllNotificationsRead flags every unread notification of userID as read
// and returns the number of rows changed.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread returns the number of unread notifications for userID.
func CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
