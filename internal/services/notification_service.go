package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

// NotificationService reads and acknowledges a user's notifications.
type NotificationService struct {
	DB *gorm.DB
}

// List returns userID's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	ctx, span := otel.Tracer("services/NotificationService").Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListNotifications(ctx, s.DB, userID)
}

// MarkRead marks one notification read and reports how many rows changed.
// Another user's notification is left untouched and reports 0.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uint) (int64, error) {
	ctx, span := otel.Tracer("services/NotificationService").Start(ctx, "MarkRead",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int64("notification.id", int64(id)),
		),
	)
	defer span.End()

	return repo.MarkNotificationRead(ctx, s.DB, id, userID)
}

// MarkAllRead marks every unread notification of userID read. target is the
// user named by the request, if any; it must match the caller.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID, target string) (int64, error) {
	ctx, span := otel.Tracer("services/NotificationService").Start(ctx, "MarkAllRead",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if target != "" && target != userID {
		return 0, ErrForbidden
	}
	return repo.MarkAllNotificationsRead(ctx, s.DB, userID)
}

// Unread returns the caller's unread count.
func (s *NotificationService) Unread(ctx context.Context, userID string) (int64, error) {
	return repo.CountUnread(ctx, s.DB, userID)
}
