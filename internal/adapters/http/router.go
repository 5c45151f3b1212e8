package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
)

// Planner calls can take a while; everything else answers fast.
const (
	planTimeout  = 60 * time.Second
	queryTimeout = 15 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Sunset headers for the pre-rename plan endpoint
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/plan/prompt",
			SunsetDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/plan",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Post("/plan", timeout.NewWithContext(PlanHandler(deps), planTimeout))
	v1.Post("/plan/prompt", timeout.NewWithContext(PlanHandler(deps), planTimeout)) // deprecated alias
	v1.Post("/itinerary", timeout.NewWithContext(ItineraryHandler(deps), planTimeout))
	v1.Post("/map/focus", timeout.NewWithContext(FocusPlaceHandler(deps), queryTimeout))
	v1.Post("/map/clear", timeout.NewWithContext(ClearMapHandler(deps), queryTimeout))
	v1.Get("/trips", timeout.NewWithContext(ListTripsHandler(deps), queryTimeout))
	v1.Get("/trips/:id", timeout.NewWithContext(GetTripHandler(deps), queryTimeout))
	v1.Get("/sites", timeout.NewWithContext(ListSitesHandler(deps), queryTimeout))
	v1.Get("/sites/search", timeout.NewWithContext(SearchSitesHandler(deps), queryTimeout))
	v1.Get("/sites/:id", timeout.NewWithContext(GetSiteHandler(deps), queryTimeout))
	v1.Get("/places/resolve", timeout.NewWithContext(ResolvePlaceHandler(deps), queryTimeout))
	v1.Get("/stats", timeout.NewWithContext(StatsHandler(deps), queryTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket render relay
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
