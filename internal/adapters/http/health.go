package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler is the liveness probe: the process is up and serving.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "yatramap-api",
			"uptime":  time.Since(startedAt).String(),
		})
	}
}

// ReadyHandler is the readiness probe. The database is required; NATS and the
// cache degrade the service when absent (render frames dropped, cache
// bypassed) but a present-and-broken dependency still fails readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		report := func(name string, err error) {
			if err != nil {
				checks[name] = "error: " + err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		if deps.DB == nil {
			checks["database"] = "not configured"
			ready = false
		} else {
			report("database", deps.DB.Pool.Ping(ctx))
		}

		if deps.NATS == nil {
			checks["nats"] = "not configured"
		} else if deps.NATS.IsConnected() {
			checks["nats"] = "ok"
		} else {
			checks["nats"] = "disconnected"
			ready = false
		}

		if deps.Cache == nil {
			checks["cache"] = "not configured"
		} else {
			report("cache", deps.Cache.Ping(ctx))
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
