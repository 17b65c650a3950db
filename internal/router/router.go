package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/eq-test-api/internal/config"
	"github.com/noah-isme/eq-test-api/internal/handler"
	"github.com/noah-isme/eq-test-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuestionHandler   *handler.QuestionHandler
	AssessmentHandler *handler.AssessmentHandler
	HealthChecks      []handler.DependencyCheck
	// ExposeMetrics mounts the Prometheus scrape endpoint at /metrics.
	ExposeMetrics bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks...))

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions"))
	}

	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api.Group("/test"))
	}

	if deps.ExposeMetrics {
		app.Get("/metrics", observability.MetricsHandler())
	}
}
