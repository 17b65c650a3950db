package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/eq-test-api/internal/config"
	"github.com/noah-isme/eq-test-api/internal/middleware"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/utils"
)

const (
	healthCheckTimeout = 2 * time.Second

	healthOK          = "ok"
	healthDegraded    = "degraded"
	healthUnavailable = "unavailable"
)

var errEmptyCatalog = errors.New("question catalog is empty")

// DependencyCheck probes one backing service. Optional dependencies only
// degrade the reported status; required ones make the service unavailable.
type DependencyCheck struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks"`
}

// HealthCheck reports whether the catalog, the result store and the optional
// event transports answer. A failing required check responds 503.
func HealthCheck(cfg config.Config, checks ...DependencyCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      healthOK,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Checks:      make(map[string]string, len(checks)),
		}

		for _, check := range checks {
			ctx, cancel := context.WithTimeout(middleware.RequestContext(c), healthCheckTimeout)
			err := check.Check(ctx)
			cancel()

			if err == nil {
				payload.Checks[check.Name] = healthOK
				continue
			}

			payload.Checks[check.Name] = err.Error()
			switch {
			case !check.Optional:
				payload.Status = healthUnavailable
			case payload.Status == healthOK:
				payload.Status = healthDegraded
			}
		}

		if payload.Status == healthUnavailable {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    payload,
				Message: "service unavailable",
				Code:    "dependency_unavailable",
			})
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

// CatalogCheck fails when the question table cannot be read or holds no questions.
func CatalogCheck(questions repository.QuestionRepository) DependencyCheck {
	return DependencyCheck{
		Name: "catalog",
		Check: func(ctx context.Context) error {
			total, err := questions.Count(ctx)
			if err != nil {
				return err
			}
			if total == 0 {
				return errEmptyCatalog
			}
			return nil
		},
	}
}

// ResultStoreCheck fails when stored results cannot be read.
func ResultStoreCheck(results repository.TestResultRepository) DependencyCheck {
	return DependencyCheck{
		Name: "result_store",
		Check: func(ctx context.Context) error {
			_, err := results.ListRecent(ctx, 1)
			return err
		},
	}
}

// RedisCheck pings the catalog cache and event channel.
func RedisCheck(client *redis.Client) DependencyCheck {
	return DependencyCheck{
		Name:     "redis",
		Optional: true,
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// NATSCheck reports the state of the event connection.
func NATSCheck(conn *nats.Conn) DependencyCheck {
	return DependencyCheck{
		Name:     "nats",
		Optional: true,
		Check: func(context.Context) error {
			if !conn.IsConnected() {
				return errors.New("nats " + conn.Status().String())
			}
			return nil
		},
	}
}
