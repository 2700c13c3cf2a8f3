package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus classifies a backend's availability. A degraded backend
// still lets scheduling proceed; an unhealthy one does not.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the outcome of probing a single backend.
type HealthCheckResult struct {
	Status   HealthStatus
	Message  string
	Duration time.Duration
}

// HealthChecker checks one backend.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry holds the checkers for every configured backend.
type HealthRegistry struct {
	mu       sync.Mutex
	checkers map[string]HealthChecker
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds a checker under the given backend name. Registering the
// same name twice replaces the earlier checker.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// OverallHealth aggregates the per-backend results with the worst status
// observed across them.
type OverallHealth struct {
	Status HealthStatus
	Checks map[string]HealthCheckResult
}

// GetOverallHealth runs every registered checker concurrently and
// aggregates the results.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	r.mu.Lock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.Unlock()

	checks := make(map[string]HealthCheckResult, len(checkers))

	var (
		wg      sync.WaitGroup
		checkMu sync.Mutex
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			start := time.Now()
			result := checker(ctx)
			result.Duration = time.Since(start)
			checkMu.Lock()
			checks[name] = result
			checkMu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return OverallHealth{Status: aggregateStatus(checks), Checks: checks}
}

// aggregateStatus returns the worst status present. An empty check set is
// healthy: nothing configured means nothing to fail.
func aggregateStatus(checks map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, check := range checks {
		switch check.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

// backendChecker builds a checker around a ping function. failStatus sets
// how severe an unreachable backend is.
func backendChecker(component string, failStatus HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{
				Status:  failStatus,
				Message: component + " connection failed: " + err.Error(),
			}
		}
		return HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: component + " connection healthy",
		}
	}
}

// DatabaseHealthChecker checks the event store. The store is mandatory,
// so a failed ping is unhealthy.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return backendChecker("database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker checks the classification cache. The cache is
// optional, so a failed ping only degrades.
func RedisHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return backendChecker("redis", HealthStatusDegraded, ping)
}

// RabbitMQHealthChecker checks the event broker. Events are advisory, so
// a failed ping only degrades.
func RabbitMQHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return backendChecker("rabbitmq", HealthStatusDegraded, ping)
}
