package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ddd-course/config"
	"ddd-course/pkg/logger"

	"go.uber.org/zap"
)

// OutboxPublisher delivers one stored event to the outside world
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// LoggingOutboxPublisher writes events to the log; used when no broker is configured
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType, payload string) error {
	logger.Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    OutboxPublisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	log          *zap.Logger
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher OutboxPublisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
		log:          logger.Named("outbox"),
	}, nil
}

// NewOutboxWorkerFromConfig builds a worker from the worker config section
func NewOutboxWorkerFromConfig(repository *OutboxRepository, publisher OutboxPublisher, cfg config.WorkerConfig) (*OutboxWorker, error) {
	return NewOutboxWorker(repository, publisher, cfg.PollInterval, cfg.BatchSize, cfg.MaxRetries)
}

// Run polls until ctx is cancelled; cancellation is not an error
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.log.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Outbox worker stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.log.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending events and returns how many were published
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			w.log.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
			w.log.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				w.log.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			w.log.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
