package shared

// AggregateRoot aggregate root interface
// The aggregate root is the single entry point and consistency boundary of an aggregate:
// 1. it has a globally unique identity
// 2. it maintains the invariants of the aggregate
// 3. all modifications go through it
// 4. it records domain events, callers drain them with PullEvents
type AggregateRoot interface {
	// ID returns the identity, assigned once by the factory
	ID() ID

	// Version returns the version, used for optimistic concurrency control
	Version() int

	// PullEvents returns the buffered events and empties the buffer
	PullEvents() []DomainEvent
}

// Root generic aggregate state shared by every aggregate in this module.
// Aggregates hold it in an unexported field so none of its mutators leak to callers.
//
// A zero Root is the "not yet usable" sentinel: ID().IsZero() is true and Guard fails.
type Root struct {
	id               ID
	version          int
	persistedVersion int
	events           EventBuffer
}

// Initialize establishes the post-factory state: identity, version 1 and exactly one
// creation event
func (r *Root) Initialize(id ID, created DomainEvent) {
	r.id = id
	r.version = 1
	r.persistedVersion = 0
	r.events.Append(created)
}

// Guard fails with an invariant violation when the aggregate bypassed its factory
func (r *Root) Guard(entity, op string) error {
	if r.id.IsZero() {
		return NewNotInitializedError(entity, op)
	}
	return nil
}

// Commit finishes a successful mutation: version +1 and the mutation's events in order.
// Callers must only Commit after every precondition passed and state was applied.
func (r *Root) Commit(events ...DomainEvent) {
	r.version++
	r.events.Append(events...)
}

// Pull drains the event buffer
func (r *Root) Pull() []DomainEvent {
	return r.events.Drain()
}

func (r *Root) ID() ID       { return r.id }
func (r *Root) Version() int { return r.version }

// ============================================================================
// Repository support
// ============================================================================

// Restore rebuilds the state of a persisted aggregate. No events are recorded.
func (r *Root) Restore(id ID, version int) {
	r.id = id
	r.version = version
	r.persistedVersion = version
	r.events = EventBuffer{}
}

// PersistedVersion the version the aggregate had when it was last loaded or saved.
// 0 means the aggregate has never been stored.
func (r *Root) PersistedVersion() int { return r.persistedVersion }

// MarkPersisted records a successful save of the current version
func (r *Root) MarkPersisted() { r.persistedVersion = r.version }

// Versioned aggregates whose stores enforce optimistic concurrency
type Versioned interface {
	AggregateRoot
	PersistedVersion() int
	MarkPersisted()
}

// IsAggregateRoot compile-time marker: var _ = shared.IsAggregateRoot(&Course{})
func IsAggregateRoot(agg AggregateRoot) AggregateRoot {
	return agg
}
