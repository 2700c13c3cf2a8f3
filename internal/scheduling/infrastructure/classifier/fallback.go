package classifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// BreakerConfig tunes the circuit breaker around the remote classifier.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// FallbackClassifier tries the remote classifier first and falls back to
// the local keyword classifier on any error. A circuit breaker keeps a
// misbehaving remote from slowing every request down; while the breaker
// is open, requests go straight to the local path.
type FallbackClassifier struct {
	remote  services.Classifier
	local   services.Classifier
	breaker *gobreaker.CircuitBreaker[domain.EventClassification]
	logger  *slog.Logger
}

// NewFallbackClassifier wraps remote with a breaker and a local fallback.
func NewFallbackClassifier(remote, local services.Classifier, cfg BreakerConfig, logger *slog.Logger) *FallbackClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "remote-classifier",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("classifier circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &FallbackClassifier{
		remote:  remote,
		local:   local,
		breaker: gobreaker.NewCircuitBreaker[domain.EventClassification](settings),
		logger:  logger,
	}
}

// Classify returns the remote classification when it succeeds and the
// local one otherwise. Errors are never surfaced to the caller.
func (f *FallbackClassifier) Classify(ctx context.Context, title, description string) (domain.EventClassification, error) {
	classification, err := f.breaker.Execute(func() (domain.EventClassification, error) {
		return f.remote.Classify(ctx, title, description)
	})
	if err == nil {
		return classification, nil
	}

	f.logger.Warn("remote classification failed, falling back to local",
		"error", err,
		"breaker_state", f.breaker.State().String(),
	)
	return f.local.Classify(ctx, title, description)
}

var _ services.Classifier = (*FallbackClassifier)(nil)
