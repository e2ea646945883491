package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/repo"
)

const defaultSweepInterval = time.Hour

// Sweeper periodically removes expired password-reset tokens and
// idempotency records.
type Sweeper struct {
	DB       *gorm.DB
	Interval time.Duration

	// Now is overridable in tests.
	Now func() time.Time
}

// Sweep runs one purge pass and returns how many rows each table lost.
func (s *Sweeper) Sweep(ctx context.Context) (resets, idem int64, err error) {
	ctx, span := otel.Tracer("services/Sweeper").Start(ctx, "Sweep")
	defer span.End()

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	if resets, err = repo.PurgeExpiredResets(ctx, s.DB, now); err != nil {
		span.RecordError(err)
		return 0, 0, err
	}
	expiredPurged.WithLabelValues("password_resets").Add(float64(resets))

	if idem, err = repo.PurgeExpiredIdempotency(ctx, s.DB, now); err != nil {
		span.RecordError(err)
		return resets, 0, err
	}
	expiredPurged.WithLabelValues("idempotency").Add(float64(idem))
	return resets, idem, nil
}

// Run sweeps once immediately and then every Interval until ctx is done.
// Failures are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	every := s.Interval
	if every <= 0 {
		every = defaultSweepInterval
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		resets, idem, err := s.Sweep(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn().Err(err).Msg("sweep failed")
		case resets+idem > 0:
			log.Debug().Int64("resets", resets).Int64("idempotency", idem).Msg("expired rows purged")
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
