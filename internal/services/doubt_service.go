package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/repo"
)

// DoubtInput carries the fields accepted by DoubtService.Post.
type DoubtInput struct {
	Subject     string
	Description string
	Branch      *string
	Location    *string
}

// DoubtService posts and lists doubts.
type DoubtService struct {
	DB *gorm.DB
}

// Post stores a new doubt owned by userID.
func (s *DoubtService) Post(ctx context.Context, userID string, in DoubtInput) (*domain.Doubt, error) {
	ctx, span := otel.Tracer("services/DoubtService").Start(ctx, "Post",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	subject := strings.TrimSpace(in.Subject)
	description := strings.TrimSpace(in.Description)
	if subject == "" || description == "" {
		return nil, ErrDoubtFieldsRequired
	}

	d := &domain.Doubt{
		UserID:      userID,
		Subject:     subject,
		Description: description,
		Branch:      blankToNil(in.Branch),
		Location:    blankToNil(in.Location),
	}
	if err := repo.CreateDoubt(ctx, s.DB, d); err != nil {
		span.RecordError(err)
		return nil, err
	}
	doubtsCreated.Inc()
	span.SetAttributes(attribute.Int64("doubt.id", int64(d.ID)))
	return d, nil
}

// Feed returns every doubt not owned by viewerID, newest first.
func (s *DoubtService) Feed(ctx context.Context, viewerID string) ([]domain.DoubtView, error) {
	ctx, span := otel.Tracer("services/DoubtService").Start(ctx, "Feed",
		trace.WithAttributes(attribute.String("user.id", viewerID)),
	)
	defer span.End()

	return repo.ListFeed(ctx, s.DB, viewerID)
}

// Get returns a single doubt with its author's name.
func (s *DoubtService) Get(ctx context.Context, id uint) (*domain.DoubtView, error) {
	ctx, span := otel.Tracer("services/DoubtService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("doubt.id", int64(id))),
	)
	defer span.End()

	v, err := repo.GetDoubtView(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDoubtNotFound
	}
	return v, err
}

// Mine returns userID's own doubts with response counts, newest first.
func (s *DoubtService) Mine(ctx context.Context, userID string) ([]domain.OwnDoubt, error) {
	ctx, span := otel.Tracer("services/DoubtService").Start(ctx, "Mine",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListOwnDoubts(ctx, s.DB, userID)
}
