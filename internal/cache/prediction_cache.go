package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/classifier"
	"github.com/spec-kit/ticket-classifier/internal/persistence"
)

// PredictionCache stores prediction results in Redis keyed by a sha1 of the
// raw description. Prediction is a pure function of the loaded artifact set,
// so caching is safe; the artifact fingerprint is part of every key so a
// swap of artifacts orphans stale entries instead of serving them.
type PredictionCache struct {
	redis       *persistence.Redis
	ttl         time.Duration
	fingerprint string
	logger      *zap.Logger
}

// NewPredictionCache builds the cache. Returns nil when disabled or when no
// Redis client is available; all methods are nil-safe.
func NewPredictionCache(redis *persistence.Redis, enabled bool, ttl time.Duration, fingerprint string, logger *zap.Logger) *PredictionCache {
	if !enabled || redis == nil || redis.Client == nil {
		return nil
	}
	return &PredictionCache{redis: redis, ttl: ttl, fingerprint: fingerprint, logger: logger}
}

// Get returns a cached prediction for the description, if present.
func (c *PredictionCache) Get(ctx context.Context, description string) (*classifier.Prediction, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Client.Get(ctx, c.key(description)).Bytes()
	if err != nil {
		return nil, false
	}
	var pred classifier.Prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		c.logger.Warn("corrupt cache entry dropped", zap.Error(err))
		_ = c.redis.Client.Del(ctx, c.key(description)).Err()
		return nil, false
	}
	return &pred, true
}

// Put stores a prediction. Failures are logged, never surfaced; the cache
// is an optimization, not a dependency.
func (c *PredictionCache) Put(ctx context.Context, description string, pred classifier.Prediction) {
	if c == nil {
		return
	}
	data, err := json.Marshal(pred)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, c.key(description), data, c.ttl).Err(); err != nil {
		c.logger.Warn("prediction cache write failed", zap.Error(err))
	}
}

func (c *PredictionCache) key(description string) string {
	sum := sha1.Sum([]byte(description))
	return "prediction:" + c.fingerprint[:12] + ":" + hex.EncodeToString(sum[:])
}
