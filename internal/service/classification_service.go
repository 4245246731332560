package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/cache"
	"github.com/spec-kit/ticket-classifier/internal/classifier"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/observability"
)

// Classification is one completed classification with its audit identity.
type Classification struct {
	classifier.Prediction
	ExternalKey string
	CacheHit    bool
}

// ClassificationService wraps the prediction pipeline with the prediction
// cache, metrics and event publication. The pipeline itself stays pure;
// everything stateful lives here.
type ClassificationService struct {
	pipeline   *classifier.Pipeline
	cache      *cache.PredictionCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ClassificationDependencies bundles collaborators for the service.
type ClassificationDependencies struct {
	Pipeline   *classifier.Pipeline
	Cache      *cache.PredictionCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewClassificationService constructs the service.
func NewClassificationService(deps ClassificationDependencies) *ClassificationService {
	return &ClassificationService{
		pipeline:   deps.Pipeline,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Classify predicts (department, priority) for a description, consulting
// the cache first. Every successful call gets its own external key and a
// prediction_completed event, cache hit or not, so the audit trail covers
// all requests.
func (s *ClassificationService) Classify(ctx context.Context, description string) (*Classification, error) {
	if strings.TrimSpace(description) == "" {
		return nil, classifier.ErrEmptyDescription
	}

	if cached, ok := s.cache.Get(ctx, description); ok {
		s.metrics.RecordCacheHit(true)
		result := &Classification{
			Prediction:  *cached,
			ExternalKey: generatePredictionKey(),
			CacheHit:    true,
		}
		s.publishCompleted(ctx, description, result)
		return result, nil
	}
	s.metrics.RecordCacheHit(false)

	pred, err := s.pipeline.Predict(description)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, description, pred)
	s.metrics.RecordPrediction(pred.Department, pred.Priority)

	result := &Classification{
		Prediction:  pred,
		ExternalKey: generatePredictionKey(),
	}
	s.publishCompleted(ctx, description, result)
	return result, nil
}

// Pipeline exposes the underlying pipeline for health reporting.
func (s *ClassificationService) Pipeline() *classifier.Pipeline {
	return s.pipeline
}

func (s *ClassificationService) publishCompleted(ctx context.Context, description string, result *Classification) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPredictionCompleted,
		Timestamp: time.Now(),
		Payload: events.PredictionCompletedPayload{
			ExternalKey:    result.ExternalKey,
			Description:    description,
			NormalizedText: result.NormalizedText,
			Department:     result.Department,
			Priority:       result.Priority,
			CacheHit:       result.CacheHit,
		},
	})
}

func generatePredictionKey() string {
	return "PRD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
