package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/repository"
)

// StartAuditWorker subscribes the prediction audit trail to domain events.
// Persistence is best-effort: a failed write logs and moves on, it never
// fails the prediction that produced the event.
func StartAuditWorker(dispatcher events.Dispatcher, repo repository.PredictionRepository, logger *zap.Logger) {
	if dispatcher == nil || repo == nil {
		return
	}

	dispatcher.Subscribe(events.EventPredictionCompleted, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.PredictionCompletedPayload)
		if !ok {
			return nil
		}
		rec := &domain.PredictionRecord{
			ExternalKey:    payload.ExternalKey,
			Description:    payload.Description,
			NormalizedText: payload.NormalizedText,
			Department:     payload.Department,
			Priority:       payload.Priority,
			CacheHit:       payload.CacheHit,
		}
		if err := repo.Create(ctx, rec); err != nil {
			logger.Warn("prediction audit write failed",
				zap.String("external_key", payload.ExternalKey),
				zap.Error(err),
			)
		}
		return nil
	})

	dispatcher.Subscribe(events.EventTicketRouted, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.TicketRoutedPayload)
		if !ok {
			return nil
		}
		if err := repo.AttachRouting(ctx, payload.ExternalKey, payload.Backend, payload.RemoteTicketID, payload.RemoteTicketNumber); err != nil {
			logger.Warn("routing audit update failed",
				zap.String("external_key", payload.ExternalKey),
				zap.Error(err),
			)
		}
		return nil
	})
}
