/*
Package eventbus in-process domain event dispatcher.

Handlers are registered per event name and run synchronously in registration order.
A failing or panicking handler never stops the remaining handlers and never reaches
the caller: failures are logged and reported in the Result.
*/
package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ddd-course/domain/shared"

	"go.uber.org/zap"
)

const maxHistory = 1000

// EventHandler handles one kind of domain event
type EventHandler interface {
	Handle(ctx context.Context, event shared.DomainEvent) error
	Name() string
}

// Failure one handler failure for one event
type Failure struct {
	Handler string `json:"handler"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

// Result outcome of dispatching one event
type Result struct {
	EventName    string    `json:"event_name"`
	EventID      string    `json:"event_id"`
	HandlerCount int       `json:"handler_count"`
	Failures     []Failure `json:"failures,omitempty"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// Success true when every handler succeeded (or none was registered)
func (r Result) Success() bool { return len(r.Failures) == 0 }

// Dispatcher explicitly constructed registry of handlers keyed by event name
type Dispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex

	history   []Result
	muHistory sync.Mutex

	logger *zap.Logger
}

// NewDispatcher creates an empty dispatcher; a nil logger discards logs
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
		history:  make([]Result, 0),
		logger:   logger.Named("eventbus"),
	}
}

// Register adds a handler for the event name. Handler names are unique per event.
func (d *Dispatcher) Register(eventName string, handler EventHandler) error {
	if eventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, h := range d.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}
	d.handlers[eventName] = append(d.handlers[eventName], handler)
	return nil
}

// Unregister removes a handler by name
func (d *Dispatcher) Unregister(eventName, handlerName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handlers := d.handlers[eventName]
	for i, h := range handlers {
		if h.Name() == handlerName {
			d.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// HandlerCount number of handlers registered for the event name
func (d *Dispatcher) HandlerCount(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventName])
}

// Dispatch runs every handler registered for the event.
// With no handlers registered it is a no-op with an empty successful Result.
func (d *Dispatcher) Dispatch(ctx context.Context, event shared.DomainEvent) Result {
	result := Result{DispatchedAt: time.Now()}
	if err := shared.ValidateEvent(event); err != nil {
		d.logger.Error("Rejected invalid domain event", zap.Error(err))
		result.Failures = append(result.Failures, Failure{Handler: "dispatcher", Err: err, Message: err.Error()})
		return result
	}
	result.EventName = event.EventName()
	result.EventID = event.EventID().String()

	d.mu.RLock()
	handlers := make([]EventHandler, len(d.handlers[event.EventName()]))
	copy(handlers, d.handlers[event.EventName()])
	d.mu.RUnlock()

	result.HandlerCount = len(handlers)
	for _, handler := range handlers {
		if err := d.invoke(ctx, handler, event); err != nil {
			d.logger.Error("Domain event handler failed",
				zap.String("event", event.EventName()),
				zap.String("event_id", event.EventID().String()),
				zap.String("aggregate_id", event.AggregateID().String()),
				zap.String("handler", handler.Name()),
				zap.Error(err))
			result.Failures = append(result.Failures, Failure{
				Handler: handler.Name(),
				Err:     err,
				Message: err.Error(),
			})
		}
	}

	d.record(result)
	return result
}

// DispatchAll dispatches events in order. Implements shared.EventDispatcher.
func (d *Dispatcher) DispatchAll(ctx context.Context, events []shared.DomainEvent) {
	for _, event := range events {
		d.Dispatch(ctx, event)
	}
}

func (d *Dispatcher) invoke(ctx context.Context, handler EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.Name(), r)
		}
	}()
	return handler.Handle(ctx, event)
}

func (d *Dispatcher) record(result Result) {
	d.muHistory.Lock()
	defer d.muHistory.Unlock()
	d.history = append(d.history, result)
	if len(d.history) > maxHistory {
		d.history = d.history[len(d.history)-maxHistory:]
	}
}

// History returns a copy of the most recent dispatch results
func (d *Dispatcher) History() []Result {
	d.muHistory.Lock()
	defer d.muHistory.Unlock()

	history := make([]Result, len(d.history))
	copy(history, d.history)
	return history
}

var _ shared.EventDispatcher = (*Dispatcher)(nil)
