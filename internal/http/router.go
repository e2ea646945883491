// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, compression,
// metrics, CORS, security headers, authentication, idempotency, and rate
// limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Per-user concerns (idempotency, rate limits) run after authentication
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-doubts-backend/docs"
	"github.com/tbourn/go-doubts-backend/internal/auth"
	"github.com/tbourn/go-doubts-backend/internal/config"
	"github.com/tbourn/go-doubts-backend/internal/http/handlers"
	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
	"github.com/tbourn/go-doubts-backend/internal/notify"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// streamPath is the websocket route below the API base path.
const streamPath = "/notifications/stream"

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath. hub may be nil, in which
// case notifications are stored but not streamed.
//
// Global middleware order:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting unless LOG_REDACT=false)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip (skips the websocket stream)
//  7. Metrics
//  8. CORS and security headers
//
// The public API group adds a per-IP rate limiter. The protected group runs
// Auth, then the idempotency validator, then a per-user rate limiter that
// lets replays through.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, hub *notify.Hub, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logs
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskParams: []string{"access_token"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(maxBodyBytes))

	// 6) Response compression; hijacked websocket connections must bypass it
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{joinPath(cfg.APIBasePath, streamPath), "/metrics"}),
	))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/hub/config
	authSvc := &services.AuthService{
		DB:            db,
		Tokens:        auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		BcryptCost:    cfg.Auth.BcryptCost,
		ResetTTL:      cfg.Auth.ResetTokenTTL,
		ResetLinkBase: cfg.Auth.ResetLinkBase,
	}
	respSvc := &services.ResponseService{DB: db, AllowSelfResponse: cfg.AllowSelfResponse}
	deps := handlers.Deps{
		Auth:               authSvc,
		Doubts:             &services.DoubtService{DB: db},
		Responses:          respSvc,
		Notifications:      &services.NotificationService{DB: db},
		ExposeErrorDetails: cfg.ExposeErrorDetails,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
	}
	if hub != nil {
		respSvc.Hub = hub
		deps.Hub = hub
	}
	idemSvc := &services.IdempotencyService{DB: db, TTL: cfg.IdempotencyTTL}
	deps.Idem = idemSvc
	h := handlers.New(deps)

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Public API
	public := api.Group("")
	public.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, byIP).Handler())
	{
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
		public.POST("/forgot-password", h.ForgotPassword)
		public.POST("/reset-password", h.ResetPassword)
	}

	// Protected API
	protected := api.Group("")
	protected.Use(
		middleware.Auth(authSvc),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idemSvc.Lookup),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).Handler(),
	)
	{
		// Doubts
		protected.POST("/doubts", h.PostDoubt)
		protected.GET("/doubts", h.GetDoubts)
		protected.GET("/my-doubts", h.GetMyDoubts)

		// Responses
		protected.POST("/responses", h.PostResponse)
		protected.POST("/doubts/:id/responses", h.PostDoubtResponse)
		protected.GET("/doubts/:id/responses", h.GetResponses)

		// Notifications
		protected.GET("/notifications", h.GetNotifications)
		protected.POST("/notifications/mark-all-read", h.MarkAllNotificationsRead)
		protected.POST("/notifications/:id/read", h.MarkNotificationRead)
		protected.GET(streamPath, h.StreamNotifications)
	}
}

// corsMiddleware returns the CORS chain. With no allowlist every origin is
// accepted without credentials; otherwise listed origins are echoed back.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

func byIP(c *gin.Context) string { return "ip:" + c.ClientIP() }

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
