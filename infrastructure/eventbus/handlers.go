package eventbus

import (
	"context"
	"fmt"
	"reflect"

	"ddd-course/domain/shared"

	"go.uber.org/zap"
)

// FuncHandler adapts a function to EventHandler
type FuncHandler struct {
	name string
	fn   func(context.Context, shared.DomainEvent) error
}

// NewFuncHandler creates a named function handler
func NewFuncHandler(name string, fn func(context.Context, shared.DomainEvent) error) *FuncHandler {
	return &FuncHandler{name: name, fn: fn}
}

func (h *FuncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

func (h *FuncHandler) Name() string { return h.name }

// On registers a typed handler for event type E.
// The dispatch key is taken from the zero value's EventName, so E must be a struct
// event type; pointer and interface types are rejected.
func On[E shared.DomainEvent](d *Dispatcher, name string, fn func(ctx context.Context, event E) error) error {
	if t := reflect.TypeFor[E](); t.Kind() != reflect.Struct {
		return fmt.Errorf("handler %s: event type %s must be a struct, got %s", name, t, t.Kind())
	}
	var zero E
	eventName := zero.EventName()
	return d.Register(eventName, NewFuncHandler(name, func(ctx context.Context, event shared.DomainEvent) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("handler %s expects %T, got %T", name, zero, event)
		}
		return fn(ctx, typed)
	}))
}

// LoggingHandler logs every event it receives at info level
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler; a nil logger discards logs
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event", event.EventName()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_on", event.OccurredOn()))
	return nil
}

func (h *LoggingHandler) Name() string { return "logging" }

// SubscribeAll registers handler for every event name given
func SubscribeAll(d *Dispatcher, handler EventHandler, eventNames ...string) error {
	for _, name := range eventNames {
		if err := d.Register(name, handler); err != nil {
			return err
		}
	}
	return nil
}
