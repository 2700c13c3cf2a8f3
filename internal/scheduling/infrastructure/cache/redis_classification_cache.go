// Package cache provides an optional Redis-backed cache for remote
// classification results, keyed by a digest of the event text.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/pkg/observability"
)

const keyPrefix = "flowgenius:classification:"

// ClassificationCache wraps a classifier with a Redis read-through cache.
// Cache errors are silent: a broken cache degrades to uncached calls,
// never to a failed classification.
type ClassificationCache struct {
	inner   services.Classifier
	client  redis.UniversalClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewClassificationCache creates a caching classifier with the given TTL.
func NewClassificationCache(inner services.Classifier, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *ClassificationCache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ClassificationCache{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Classify serves from the cache when possible, delegating to the inner
// classifier and storing the result otherwise.
func (c *ClassificationCache) Classify(ctx context.Context, title, description string) (domain.EventClassification, error) {
	key := cacheKey(title, description)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached domain.EventClassification
		if err := json.Unmarshal(data, &cached); err == nil && cached.Type.IsValid() {
			c.metrics.Counter(observability.MetricClassifierCacheHits, 1)
			c.logger.Debug("classification cache hit", "key", key)
			return cached, nil
		}
	}
	c.metrics.Counter(observability.MetricClassifierCacheMisses, 1)

	classification, err := c.inner.Classify(ctx, title, description)
	if err != nil {
		return classification, err
	}

	if data, err := json.Marshal(classification); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Debug("classification cache write failed", "key", key, "error", err)
		}
	}
	return classification, nil
}

func cacheKey(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return keyPrefix + hex.EncodeToString(sum[:])
}

var _ services.Classifier = (*ClassificationCache)(nil)
