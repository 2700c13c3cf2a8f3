package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticChecker(status HealthStatus, message string) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		return HealthCheckResult{Status: status, Message: message}
	}
}

func TestHealthRegistry_GetOverallHealth(t *testing.T) {
	t.Run("runs every registered checker", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", staticChecker(HealthStatusHealthy, "ok"))
		registry.Register("redis", staticChecker(HealthStatusHealthy, "ok"))

		overall := registry.GetOverallHealth(context.Background())

		require.Len(t, overall.Checks, 2)
		assert.Equal(t, HealthStatusHealthy, overall.Status)
		assert.Equal(t, "ok", overall.Checks["database"].Message)
		assert.GreaterOrEqual(t, overall.Checks["database"].Duration, time.Duration(0))
	})

	t.Run("empty registry is healthy", func(t *testing.T) {
		registry := NewHealthRegistry()

		overall := registry.GetOverallHealth(context.Background())

		assert.Equal(t, HealthStatusHealthy, overall.Status)
		assert.Empty(t, overall.Checks)
	})

	t.Run("degraded backend degrades overall", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", staticChecker(HealthStatusHealthy, "ok"))
		registry.Register("redis", staticChecker(HealthStatusDegraded, "slow"))

		overall := registry.GetOverallHealth(context.Background())

		assert.Equal(t, HealthStatusDegraded, overall.Status)
	})

	t.Run("unhealthy backend wins over degraded", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", staticChecker(HealthStatusUnhealthy, "down"))
		registry.Register("redis", staticChecker(HealthStatusDegraded, "slow"))
		registry.Register("rabbitmq", staticChecker(HealthStatusHealthy, "ok"))

		overall := registry.GetOverallHealth(context.Background())

		assert.Equal(t, HealthStatusUnhealthy, overall.Status)
	})

	t.Run("re-registering a name replaces the checker", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", staticChecker(HealthStatusUnhealthy, "down"))
		registry.Register("database", staticChecker(HealthStatusHealthy, "ok"))

		overall := registry.GetOverallHealth(context.Background())

		require.Len(t, overall.Checks, 1)
		assert.Equal(t, HealthStatusHealthy, overall.Status)
	})
}

func TestBackendCheckers(t *testing.T) {
	failing := func(ctx context.Context) error { return errors.New("connection refused") }
	passing := func(ctx context.Context) error { return nil }

	t.Run("database failure is unhealthy", func(t *testing.T) {
		result := DatabaseHealthChecker(failing)(context.Background())

		assert.Equal(t, HealthStatusUnhealthy, result.Status)
		assert.Contains(t, result.Message, "database connection failed")
	})

	t.Run("database success is healthy", func(t *testing.T) {
		result := DatabaseHealthChecker(passing)(context.Background())

		assert.Equal(t, HealthStatusHealthy, result.Status)
		assert.Contains(t, result.Message, "database connection healthy")
	})

	t.Run("redis failure only degrades", func(t *testing.T) {
		result := RedisHealthChecker(failing)(context.Background())

		assert.Equal(t, HealthStatusDegraded, result.Status)
		assert.Contains(t, result.Message, "redis connection failed")
	})

	t.Run("rabbitmq failure only degrades", func(t *testing.T) {
		result := RabbitMQHealthChecker(failing)(context.Background())

		assert.Equal(t, HealthStatusDegraded, result.Status)
		assert.Contains(t, result.Message, "rabbitmq connection failed")
	})
}
