package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute runs fn inside one transaction; after fn succeeds the events of every registered
// aggregate are drained exactly once, persisted (outbox) and dispatched.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores drained events in the same transaction as the aggregates
type OutboxRepository interface {
	SaveEvents(ctx context.Context, events []DomainEvent) error
}
