// Package services – ResponseService
//
// Respond is the single entry point for answering a doubt, whichever route
// the request arrived on. It validates input, enforces the self-response
// policy, and stores the response together with the owner's notification in
// one transaction. The notification is published to live subscribers only
// after the commit.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/notify"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

// previewRunes is how much of a response is quoted in the owner's notification.
const previewRunes = 20

// ResponseService stores responses and raises notifications for doubt owners.
type ResponseService struct {
	DB *gorm.DB

	// Hub receives each committed notification. Optional.
	Hub notify.Publisher

	// AllowSelfResponse lets owners answer their own doubts. Owners are never
	// notified about their own responses.
	AllowSelfResponse bool
}

// Respond answers doubtID on behalf of responderID. A zero doubtID is
// reported as missing input.
func (s *ResponseService) Respond(ctx context.Context, responderID string, doubtID uint, message string, contact *string) (*domain.Response, error) {
	ctx, span := otel.Tracer("services/ResponseService").Start(ctx, "Respond",
		trace.WithAttributes(
			attribute.String("user.id", responderID),
			attribute.Int64("doubt.id", int64(doubtID)),
		),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if doubtID == 0 {
		return nil, ErrResponseFieldsRequired
	}
	if message == "" {
		return nil, ErrMessageRequired
	}

	var (
		resp  *domain.Response
		note  *domain.Notification
		owner string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		owner, err = repo.DoubtOwner(ctx, tx, doubtID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrDoubtNotFound
			}
			return err
		}
		if owner == responderID && !s.AllowSelfResponse {
			return ErrSelfResponse
		}

		resp = &domain.Response{
			DoubtID:     doubtID,
			ResponderID: responderID,
			Message:     message,
			ContactInfo: blankToNil(contact),
		}
		if err := repo.CreateResponse(ctx, tx, resp); err != nil {
			return err
		}

		if owner == responderID {
			return nil
		}
		note = &domain.Notification{
			UserID:  owner,
			DoubtID: doubtID,
			Message: NotificationText(message),
			Type:    domain.NotificationTypeResponse,
		}
		return repo.CreateNotification(ctx, tx, note)
	})
	if err != nil {
		if !errors.Is(err, ErrDoubtNotFound) && !errors.Is(err, ErrSelfResponse) {
			span.RecordError(err)
		}
		return nil, err
	}

	responsesCreated.Inc()
	if note != nil {
		notificationsCreated.Inc()
		if s.Hub != nil {
			s.Hub.Publish(*note)
			log.Debug().
				Str("user_id", owner).
				Uint("notification_id", note.ID).
				Msg("notification published")
		}
	}
	return resp, nil
}

// List returns the responses to doubtID, newest first. An unknown doubt
// yields an empty list.
func (s *ResponseService) List(ctx context.Context, doubtID uint) ([]domain.ResponseView, error) {
	ctx, span := otel.Tracer("services/ResponseService").Start(ctx, "List",
		trace.WithAttributes(attribute.Int64("doubt.id", int64(doubtID))),
	)
	defer span.End()

	return repo.ListResponses(ctx, s.DB, doubtID)
}

// Get returns a stored response by id.
func (s *ResponseService) Get(ctx context.Context, id uint) (*domain.Response, error) {
	return repo.GetResponse(ctx, s.DB, id)
}

// NotificationText renders the owner-facing notification for a response.
func NotificationText(message string) string {
	preview := message
	if utf8.RuneCountInString(preview) > previewRunes {
		preview = string([]rune(preview)[:previewRunes])
	}
	return fmt.Sprintf("New response to your doubt \"%s...\"", preview)
}
