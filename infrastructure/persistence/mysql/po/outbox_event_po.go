package po

import (
	"time"

	"ddd-course/domain/shared"

	"github.com/bytedance/sonic"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:36"` // the domain event's own ID
	AggregateID string    `gorm:"size:36;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g., "course.student_enrolled"
	Payload     string    `gorm:"type:text;not null"`               // JSON envelope, see EventEnvelope
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	OccurredOn  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// EventEnvelope wire format of an outbox payload
type EventEnvelope struct {
	EventID     string    `json:"event_id"`
	EventName   string    `json:"event_name"`
	AggregateID string    `json:"aggregate_id"`
	OccurredOn  time.Time `json:"occurred_on"`
	Data        any       `json:"data"`
}

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent, now time.Time) (*OutboxEventPO, error) {
	payload, err := MarshalEvent(event)
	if err != nil {
		return nil, err
	}

	return &OutboxEventPO{
		ID:          event.EventID().String(),
		AggregateID: event.AggregateID().String(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		OccurredOn:  event.OccurredOn(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarshalEvent serializes the event metadata plus its exported payload fields
func MarshalEvent(event shared.DomainEvent) (string, error) {
	data, err := sonic.MarshalString(EventEnvelope{
		EventID:     event.EventID().String(),
		EventName:   event.EventName(),
		AggregateID: event.AggregateID().String(),
		OccurredOn:  event.OccurredOn(),
		Data:        event,
	})
	if err != nil {
		return "", err
	}
	return data, nil
}

// ToEnvelope decodes the payload; Data is left as a generic map
func (po *OutboxEventPO) ToEnvelope() (EventEnvelope, error) {
	var envelope EventEnvelope
	if err := sonic.UnmarshalString(po.Payload, &envelope); err != nil {
		return EventEnvelope{}, err
	}
	return envelope, nil
}
