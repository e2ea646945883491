package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/internal/config"
	httpapi "github.com/tbourn/go-doubts-backend/internal/http"
	"github.com/tbourn/go-doubts-backend/internal/notify"
	"github.com/tbourn/go-doubts-backend/internal/observability"
	"github.com/tbourn/go-doubts-backend/internal/repo"
	"github.com/tbourn/go-doubts-backend/internal/services"
	"github.com/tbourn/go-doubts-backend/internal/sysutil"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `serve migrates the database, then serves the API until SIGINT or
SIGTERM, draining in-flight requests for SHUTDOWN_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", ":"+cfg.Port)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, ln)
		},
	}
}

// serve runs the API on ln until ctx is done. It owns ln and every resource
// it opens.
func serve(ctx context.Context, cfg config.Config, ln net.Listener) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		ln.Close()
		return fmt.Errorf("tracing: %w", err)
	}

	db, err := openMigrated(cfg.DB)
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			log.Warn().Err(err).Msg("db close failed")
		}
	}()

	hub := notify.NewHub(notify.DefaultBuffer)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, hub, cfg)

	srv := &http.Server{
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	// Hijacked websocket streams are not drained by Shutdown.
	srv.RegisterOnShutdown(hub.Close)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go (&services.Sweeper{DB: db}).Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", ln.Addr().String()).
			Str("base_path", cfg.APIBasePath).
			Str("db_driver", cfg.DB.Driver).
			Str("version", version).
			Msg("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = shutdownTracing(context.Background())
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown failed")
	}
	log.Info().Msg("server stopped")
	return nil
}

func openMigrated(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := repo.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		_ = repo.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())

			db, err := openMigrated(cfg.DB)
			if err != nil {
				return err
			}
			log.Info().Str("db_driver", cfg.DB.Driver).Msg("schema up to date")
			return repo.Close(db)
		},
	}
}
