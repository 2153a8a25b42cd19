package mysql

import (
	"context"
	"fmt"
	"time"

	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OutboxRepository MySQL/GORM implementation of outbox repository
// Implements transactional outbox pattern for reliable domain event publishing
type OutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// SaveEvents Save domain events to the outbox table, in order
// Uses transaction from context when called within UoW.Execute()
// Creates its own transaction when called standalone
func (r *OutboxRepository) SaveEvents(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*po.OutboxEventPO, 0, len(events))
	now := r.now()
	for _, event := range events {
		if err := shared.ValidateEvent(event); err != nil {
			return fmt.Errorf("invalid domain event: %w", err)
		}
		row, err := po.FromDomainEvent(event, now)
		if err != nil {
			return fmt.Errorf("failed to convert domain event: %w", err)
		}
		rows = append(rows, row)
	}

	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save events to outbox: %w", err)
		}
		return nil
	})
}

// GetPendingEvents Get pending events for processing, oldest first
// Used by OutboxWorker to retrieve events for publishing
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := dbFromContext(ctx, r.db).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Order("occurred_on ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing Mark event as being processed
// The status guard keeps two workers from claiming the same event
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := dbFromContext(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusProcessing),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

// MarkEventPublished Mark event as successfully published
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := dbFromContext(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusPublished),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed Mark event as failed to publish
// The event goes back to PENDING until maxRetries attempts were made
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := dbFromContext(ctx, r.db)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	newStatus := string(po.EventStatusFailed)
	if newRetryCount < maxRetries {
		newStatus = string(po.EventStatusPending) // Retry later
	}

	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"retry_count": newRetryCount,
			"updated_at":  r.now(),
		}).Error
}

// CountByStatus number of outbox rows in a status
func (r *OutboxRepository) CountByStatus(ctx context.Context, status po.EventStatus) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

// Compile-time interface implementation check
var _ shared.OutboxRepository = (*OutboxRepository)(nil)
