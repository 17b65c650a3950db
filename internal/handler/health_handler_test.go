package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eq-test-api/internal/handler"
)

type healthPayload struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks"`
}

func TestHealthCheck_AllDependenciesUp(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	stack := newTestStack(t, stackOptions{extraChecks: []handler.DependencyCheck{handler.RedisCheck(client)}})
	insertQuestion(t, stack.db, "自我意识", 1, 2, 3, 4)

	resp := get(t, stack.app, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "EQ Test API", resp.Header.Get("X-Application"))
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	var payload healthPayload
	env := decodeEnvelope(t, resp, &payload)
	require.True(t, env.Success)
	require.Equal(t, "ok", payload.Status)
	require.Equal(t, "test", payload.Environment)
	require.Equal(t, map[string]string{"catalog": "ok", "result_store": "ok", "redis": "ok"}, payload.Checks)
}

func TestHealthCheck_EmptyCatalogIsUnavailable(t *testing.T) {
	stack := newTestStack(t, stackOptions{})

	resp := get(t, stack.app, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var payload healthPayload
	env := decodeEnvelope(t, resp, &payload)
	require.False(t, env.Success)
	require.Equal(t, "dependency_unavailable", env.Code)
	require.Equal(t, "unavailable", payload.Status)
	require.Equal(t, "question catalog is empty", payload.Checks["catalog"])
	require.Equal(t, "ok", payload.Checks["result_store"])
}

func TestHealthCheck_ClosedDatabase(t *testing.T) {
	stack := newTestStack(t, stackOptions{})
	insertQuestion(t, stack.db, "自我意识", 1, 2, 3, 4)
	sqlDB, err := stack.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp := get(t, stack.app, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var payload healthPayload
	decodeEnvelope(t, resp, &payload)
	require.NotEqual(t, "ok", payload.Checks["catalog"])
	require.NotEqual(t, "ok", payload.Checks["result_store"])
}

func TestHealthCheck_OptionalFailureDegrades(t *testing.T) {
	broker := handler.DependencyCheck{
		Name:     "nats",
		Optional: true,
		Check:    func(context.Context) error { return errors.New("nats CLOSED") },
	}
	stack := newTestStack(t, stackOptions{extraChecks: []handler.DependencyCheck{broker}})
	insertQuestion(t, stack.db, "关系管理", 0, 1, 2, 4)

	resp := get(t, stack.app, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload healthPayload
	env := decodeEnvelope(t, resp, &payload)
	require.True(t, env.Success)
	require.Equal(t, "degraded", payload.Status)
	require.Equal(t, "nats CLOSED", payload.Checks["nats"])
	require.Equal(t, "ok", payload.Checks["catalog"])
}
