// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Middleware ordering is safe by default: trace first, then correlate, then
// log, then recover, so every failure mode carries a request ID.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/bledchat/server/internal/config"
	"github.com/bledchat/server/internal/http/handlers"
	"github.com/bledchat/server/internal/http/middleware"
	"github.com/bledchat/server/internal/services"
	"github.com/bledchat/server/internal/store"
)

// Stores bundles the in-memory state shared by all services. The whole
// bundle lives and dies with the process.
type Stores struct {
	Rooms    *store.RoomStore
	Users    *store.UserStore
	Files    *store.FileStore
	Presence *store.Presence
}

// NewStores builds the store bundle from configuration.
func NewStores(cfg config.Config) *Stores {
	return &Stores{
		Rooms:    store.NewRoomStore(cfg.Chat.RoomCap),
		Users:    store.NewUserStore(),
		Files:    store.NewFileStore(cfg.Chat.MaxFileBytes),
		Presence: store.NewPresence(),
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), rate limiting, CORS and security
// headers, health and metrics endpoints, and the versioned public API under
// /api/v1.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with secret scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (sized to admit the upload cap)
//  6. Metrics
//  7. Rate limiter per client IP
//  8. Gzip, CORS, and security headers
func RegisterRoutes(r *gin.Engine, st *Stores, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit: the upload cap plus headroom for multipart
	// framing; 1 MiB floor when uploads are uncapped.
	bodyLimit := cfg.Chat.MaxFileBytes + (1 << 20)
	if cfg.Chat.MaxFileBytes <= 0 {
		bodyLimit = 1 << 20
	}
	r.Use(limitBody(bodyLimit))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 8) Compression for history payloads; file downloads opt out by path.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/v1/files/.+`})))

	// CORS posture (safe defaults: allow all when none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
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
		NoStore:      false,
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

	// Dependency injection: services ← stores
	msgSvc := &services.MessageService{
		Store:        st.Rooms,
		MaxTextRunes: cfg.Chat.MaxMessageRunes,
	}
	authSvc := &services.AuthService{Users: st.Users}
	fileSvc := &services.FileService{Files: st.Files, Messages: msgSvc}
	presenceSvc := &services.PresenceService{Online: st.Presence}
	h := handlers.New(msgSvc, authSvc, fileSvc, presenceSvc)

	// Public API
	api := r.Group("/api/v1")
	{
		// Messages
		api.POST("/messages", h.SubmitMessage)
		api.GET("/messages", h.ListMessages)

		// Accounts
		api.POST("/auth", h.Auth)

		// File sharing
		api.POST("/files", h.UploadFile)
		api.GET("/files/:id", h.DownloadFile)

		// Presence
		api.GET("/presence", h.GetPresence)
		api.POST("/presence", h.UpdatePresence)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Oversized requests fail on the first body read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
