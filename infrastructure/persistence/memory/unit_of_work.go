package memory

import (
	"context"
	"sync"

	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/retry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// UnitOfWork in-memory unit of work.
// Writes made through the memory repositories are undone when fn fails; after fn
// succeeds the events of the registered aggregates are drained once and dispatched.
type UnitOfWork struct {
	dispatcher shared.EventDispatcher
	retry      retry.Config
	tracer     trace.Tracer

	mu         sync.Mutex
	aggregates []shared.AggregateRoot
}

// NewUnitOfWork creates a unit of work; dispatcher may be nil
func NewUnitOfWork(dispatcher shared.EventDispatcher, retryConfig retry.Config) *UnitOfWork {
	return &UnitOfWork{
		dispatcher: dispatcher,
		retry:      retryConfig,
		tracer:     otel.Tracer("ddd-course/persistence/memory"),
	}
}

// Execute runs fn, retrying the whole unit on a concurrency conflict
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retry, func(ctx context.Context) error {
		return u.executeOnce(ctx, fn)
	})
}

func (u *UnitOfWork) executeOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := u.tracer.Start(ctx, "uow.execute", trace.WithAttributes(attribute.String("uow.store", "memory")))
	defer span.End()

	u.reset()
	j := &journal{}
	if err := fn(contextWithJournal(ctx, j)); err != nil {
		j.rollback()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	events := u.pullEvents()
	span.SetAttributes(attribute.Int("uow.events", len(events)))
	if u.dispatcher != nil && len(events) > 0 {
		u.dispatcher.DispatchAll(ctx, events)
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot)   { u.register(aggregate) }
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

// pullEvents drains every registered aggregate in registration order
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

// UnitOfWorkFactory creates memory units of work sharing one dispatcher
type UnitOfWorkFactory struct {
	dispatcher shared.EventDispatcher
	retry      retry.Config
}

func NewUnitOfWorkFactory(dispatcher shared.EventDispatcher, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{dispatcher: dispatcher, retry: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.dispatcher, f.retry)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
