package observability

import (
	"context"
	"log/slog"
	"time"
)

// TimeOperationResult runs fn, logs how long it took, and records the
// duration and outcome under the operation metrics. The context is passed
// to the logger so correlation attributes propagate into the entries.
func TimeOperationResult[R any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (R, error)) (R, error) {
	start := time.Now()
	result, err := fn()
	duration := time.Since(start)

	if logger != nil {
		if err != nil {
			logger.ErrorContext(ctx, "operation failed",
				"operation", operation,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			logger.InfoContext(ctx, "operation completed",
				"operation", operation,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	if metrics != nil {
		tag := T("operation", operation)
		metrics.Timing(MetricOperationDuration, duration, tag)
		metrics.Counter(MetricOperationTotal, 1, tag)
		if err != nil {
			metrics.Counter(MetricOperationErrors, 1, tag)
		}
	}

	return result, err
}
