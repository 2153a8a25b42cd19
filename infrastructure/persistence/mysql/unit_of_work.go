package mysql

import (
	"context"
	"fmt"
	"sync"

	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence"
	"ddd-course/infrastructure/persistence/retry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db               *gorm.DB
	outboxRepository *OutboxRepository
	dispatcher       shared.EventDispatcher
	retryConfig      retry.Config
	tracer           trace.Tracer

	mu         sync.Mutex
	aggregates []shared.AggregateRoot
}

// NewUnitOfWork creates a new UnitOfWork instance; dispatcher may be nil
func NewUnitOfWork(db *gorm.DB, dispatcher shared.EventDispatcher) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		outboxRepository: NewOutboxRepository(db),
		dispatcher:       dispatcher,
		retryConfig:      retry.DefaultConfig,
		tracer:           otel.Tracer("ddd-course/persistence/mysql"),
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction and injects it into context for repositories to use
// 2. Executes the business function
// 3. Drains events from registered aggregates into the outbox table, same transaction
// 4. Commits on success, rolls back on error
// 5. Dispatches the drained events in-process after the commit
// 6. Retries the whole unit on retryable errors (version conflicts, deadlocks)
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		return u.executeOnce(ctx, fn)
	})
}

func (u *UnitOfWork) executeOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, span := u.tracer.Start(ctx, "uow.execute", trace.WithAttributes(
		attribute.String("uow.store", u.db.Dialector.Name()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Reset aggregates for this attempt
	u.reset()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	txCtx := persistence.ContextWithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	// Outbox pattern: events are stored with the state change they describe
	events := u.pullEvents()
	if err := u.outboxRepository.SaveEvents(txCtx, events); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetAttributes(attribute.Int("uow.events", len(events)))
	if u.dispatcher != nil && len(events) > 0 {
		u.dispatcher.DispatchAll(ctx, events)
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) { u.register(aggregate) }

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) { u.register(aggregate) }

func (u *UnitOfWork) register(aggregate shared.AggregateRoot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range u.aggregates {
		if a == aggregate {
			return
		}
	}
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.aggregates = nil
}

func (u *UnitOfWork) pullEvents() []shared.DomainEvent {
	u.mu.Lock()
	defer u.mu.Unlock()

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	u.aggregates = nil
	return events
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
