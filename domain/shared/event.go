package shared

import (
	"context"
	"fmt"
	"time"
)

// DomainEvent immutable fact describing a change inside an aggregate.
// Concrete events are value types embedding EventBase, so every reader gets a copy.
type DomainEvent interface {
	// EventName discriminant used as the dispatch key ("course.created")
	EventName() string
	EventID() ID
	AggregateID() ID
	OccurredOn() time.Time
}

// EventBase common event fields, frozen at emission
type EventBase struct {
	eventID     ID
	aggregateID ID
	occurredOn  time.Time
}

// NewEventBase stamps a new event for the given aggregate
func NewEventBase(aggregateID ID) EventBase {
	return EventBase{
		eventID:     NewID(),
		aggregateID: aggregateID,
		occurredOn:  time.Now().UTC(),
	}
}

// RestoreEventBase rebuilds event metadata, e.g. when reading an outbox row
func RestoreEventBase(eventID, aggregateID ID, occurredOn time.Time) EventBase {
	return EventBase{eventID: eventID, aggregateID: aggregateID, occurredOn: occurredOn}
}

func (b EventBase) EventID() ID           { return b.eventID }
func (b EventBase) AggregateID() ID       { return b.aggregateID }
func (b EventBase) OccurredOn() time.Time { return b.occurredOn }

// ValidateEvent checks the metadata every event must carry
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.AggregateID().IsZero() {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}

// ============================================================================
// Event Buffer
// ============================================================================

// EventBuffer owned buffer of not-yet-dispatched events.
// Only two operations: Append (by the owning aggregate) and Drain (pull protocol).
// The zero value is ready to use.
type EventBuffer struct {
	events []DomainEvent
}

// Append records events in order
func (b *EventBuffer) Append(events ...DomainEvent) {
	b.events = append(b.events, events...)
}

// Drain returns every buffered event in order and empties the buffer in the same call.
// A second Drain without new Appends returns an empty slice.
func (b *EventBuffer) Drain() []DomainEvent {
	events := make([]DomainEvent, len(b.events))
	copy(events, b.events)
	b.events = nil
	return events
}

// ============================================================================
// Dispatch contract
// ============================================================================

// EventDispatcher forwards drained events to handlers.
// Implementations must isolate handler failures: nothing is returned to the caller.
type EventDispatcher interface {
	DispatchAll(ctx context.Context, events []DomainEvent)
}
