package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/yatramap/yatramap/internal/adapters/gemini"
	"github.com/yatramap/yatramap/internal/adapters/http"
	"github.com/yatramap/yatramap/internal/adapters/mapwire"
	natsadapter "github.com/yatramap/yatramap/internal/adapters/nats"
	"github.com/yatramap/yatramap/internal/adapters/postgres"
	"github.com/yatramap/yatramap/internal/adapters/valkey"
	"github.com/yatramap/yatramap/internal/core/gazetteer"
	"github.com/yatramap/yatramap/internal/core/ports"
	"github.com/yatramap/yatramap/internal/core/usecases"
	"github.com/yatramap/yatramap/internal/pkg/config"
	"github.com/yatramap/yatramap/internal/pkg/logging"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
	"github.com/yatramap/yatramap/internal/pkg/telemetry"
)

// nopPublisher keeps the render pipeline alive when NATS is down; frames are
// dropped and clients simply see nothing until the broker returns.
type nopPublisher struct{}

func (nopPublisher) PublishRenderCommand(ctx context.Context, frame []byte) error { return nil }

func main() {
	cfg, err := config.Load("yatramap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Export pool gauges while the process runs
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS render-command stream
	var pub ports.RenderPublisher = nopPublisher{}
	var natsConn *nats.Conn
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, render frames will be dropped", "error", err)
	} else {
		defer publisher.Close()
		pub = publisher

		// Raw connection for the WebSocket broadcast fan-out
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats raw connection failed", "error", err)
		} else {
			defer natsConn.Close()
		}

		// Relay: consume the durable command stream once per instance and
		// republish on the broadcast subject WebSocket clients listen on.
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("render relay unavailable", "error", err)
		} else {
			defer sub.Close()
			err = sub.SubscribeRenderCommands(ctx, func(ctx context.Context, frame []byte) error {
				if natsConn == nil {
					return nil
				}
				return natsConn.Publish(natsadapter.BroadcastSubject, frame)
			})
			if err != nil {
				slog.Warn("render relay subscribe failed", "error", err)
			}
		}
	}

	// Gemini planner
	planner, err := gemini.New(ctx,
		cfg.Planner.APIKey,
		cfg.Planner.Model,
		cfg.Planner.MaxRetries,
		time.Duration(cfg.Planner.TimeoutSeconds)*time.Second,
		slog.Default(),
	)
	if err != nil {
		log.Fatalf("gemini planner: %v", err)
	}

	// Repositories
	tripRepo := postgres.NewTripRepo(db)
	siteRepo := postgres.NewSiteRepo(db)

	// Plan pipeline
	gaz := gazetteer.New()
	norm := usecases.NewNormalizer(gaz)
	resolver := usecases.NewResolver(norm, gaz)
	emitter := mapwire.NewEmitter(pub, slog.Default())
	renderer := usecases.NewRenderer(emitter, emitter)

	planSvc := usecases.NewPlanService(planner, tripRepo, resolver, renderer, emitter, gaz, slog.Default())
	siteSvc := usecases.NewSiteService(siteRepo, cacheSvc)
	tripSvc := usecases.NewTripService(tripRepo)

	deps := &http.Dependencies{
		Plans:     planSvc,
		Sites:     siteSvc,
		Trips:     tripSvc,
		Gazetteer: gaz,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "YatraMap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.yatramap.in",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
