// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and page handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, compression, sessions, CSRF, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-adoption/internal/config"
	"github.com/tbourn/go-pet-adoption/internal/domain"
	"github.com/tbourn/go-pet-adoption/internal/http/handlers"
	"github.com/tbourn/go-pet-adoption/internal/http/middleware"
	"github.com/tbourn/go-pet-adoption/internal/repo"
	"github.com/tbourn/go-pet-adoption/internal/services"
	"github.com/tbourn/go-pet-adoption/internal/web"
)

// petRepoShim adapts the repository free functions to the services.PetRepo
// interface expected by the PetService.
type petRepoShim struct{}

func (petRepoShim) CreatePet(ctx context.Context, db *gorm.DB, in domain.NewPet) (*domain.Pet, error) {
	return repo.CreatePet(ctx, db, in)
}

func (petRepoShim) GetPet(ctx context.Context, db *gorm.DB, id uint) (*domain.Pet, error) {
	return repo.GetPet(ctx, db, id)
}

func (petRepoShim) ListPets(ctx context.Context, db *gorm.DB) ([]domain.Pet, error) {
	return repo.ListPets(ctx, db)
}

func (petRepoShim) ListPetsByAvailability(ctx context.Context, db *gorm.DB, available bool) ([]domain.Pet, error) {
	return repo.ListPetsByAvailability(ctx, db, available)
}

func (petRepoShim) UpdatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return repo.UpdatePet(ctx, db, p)
}

func (petRepoShim) PetStats(ctx context.Context, db *gorm.DB) (repo.PetCounts, error) {
	return repo.PetStats(ctx, db)
}

// maxFormBytes caps request bodies; the largest legitimate form is a few KiB.
const maxFormBytes = 1 << 20

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine: observability, rate limiting, CORS and security headers, health
// and metrics endpoints, and then the adoption pages at the root.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP; /health and /metrics exempt)
//  8. CORS and Security headers
//  9. Gzip, the session (flash messages, CSRF salt) and CSRF for the pages
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(web.MustTemplates())

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"Cookie", "Set-Cookie"},
	}))

	// 4) Panic recovery to an HTML 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxFormBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler("/health", "/metrics"))

	// 8) CORS posture. Pages are same-origin; cross-origin reads are only
	// granted to the configured allowlist.
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
		CSP:          middleware.DefaultCSP,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "Page not found.")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "Method not allowed.")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// 9) Page-only middleware
	pages := r.Group("")
	pages.Use(gzip.Gzip(gzip.DefaultCompression))
	pages.Use(middleware.Session(middleware.SessionOptions{
		Secret: cfg.SecretKey,
		Secure: cfg.Security.EnableHSTS,
	}))
	if cfg.CSRFEnabled {
		pages.Use(middleware.CSRF(middleware.CSRFOptions{Secret: cfg.SecretKey}))
	}

	// Dependency injection: services ← repo/db
	petSvc := services.NewPetService(db, petRepoShim{})
	h := handlers.New(petSvc)

	pages.GET("/", h.Home)
	pages.GET("/add", h.AddForm)
	pages.POST("/add", h.AddPet)
	pages.GET("/list_pets", h.ListPets)
	pages.GET("/:id", h.ShowPet)
	pages.POST("/:id", h.EditPet)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
