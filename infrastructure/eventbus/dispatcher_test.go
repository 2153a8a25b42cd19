package eventbus

import (
	"context"
	"errors"
	"testing"

	"ddd-course/domain/course"
	"ddd-course/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func courseEvents(t *testing.T, capacity int) []shared.DomainEvent {
	t.Helper()
	name, err := course.NewName("Event storming")
	require.NoError(t, err)
	c, err := course.Create(name, capacity)
	require.NoError(t, err)
	require.NoError(t, c.EnrollStudent(shared.NewID()))
	return c.PullEvents()
}

func TestDispatchRunsHandlersInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var calls []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		require.NoError(t, d.Register(course.EventCourseCreated, NewFuncHandler(name,
			func(context.Context, shared.DomainEvent) error {
				calls = append(calls, name)
				return nil
			})))
	}

	events := courseEvents(t, 5)
	result := d.Dispatch(context.Background(), events[0])

	assert.True(t, result.Success())
	assert.Equal(t, 3, result.HandlerCount)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(zap.New(core))

	var reached bool
	require.NoError(t, d.Register(course.EventCourseCreated, NewFuncHandler("failing",
		func(context.Context, shared.DomainEvent) error { return errors.New("boom") })))
	require.NoError(t, d.Register(course.EventCourseCreated, NewFuncHandler("panicking",
		func(context.Context, shared.DomainEvent) error { panic("kaput") })))
	require.NoError(t, d.Register(course.EventCourseCreated, NewFuncHandler("healthy",
		func(context.Context, shared.DomainEvent) error { reached = true; return nil })))

	result := d.Dispatch(context.Background(), courseEvents(t, 5)[0])

	assert.True(t, reached, "later handlers still run")
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "failing", result.Failures[0].Handler)
	assert.Equal(t, "panicking", result.Failures[1].Handler)
	assert.Contains(t, result.Failures[1].Message, "kaput")
	assert.Equal(t, 2, logs.FilterMessage("Domain event handler failed").Len())
}

func TestDispatchWithoutHandlersIsNoop(t *testing.T) {
	d := NewDispatcher(nil)
	result := d.Dispatch(context.Background(), courseEvents(t, 5)[0])

	assert.True(t, result.Success())
	assert.Equal(t, 0, result.HandlerCount)
	assert.Len(t, d.History(), 1)
}

func TestTypedRegistration(t *testing.T) {
	d := NewDispatcher(nil)
	var enrolled []shared.ID
	var closed int

	require.NoError(t, On(d, "roster", func(_ context.Context, e course.StudentEnrolled) error {
		enrolled = append(enrolled, e.StudentID)
		return nil
	}))
	require.NoError(t, On(d, "notify", func(_ context.Context, e course.EnrollmentClosed) error {
		closed++
		return nil
	}))

	d.DispatchAll(context.Background(), courseEvents(t, 1))

	assert.Len(t, enrolled, 1)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, d.HandlerCount(course.EventStudentEnrolled))
}

func TestTypedRegistrationRejectsNonStructEvents(t *testing.T) {
	d := NewDispatcher(nil)

	var err error
	require.NotPanics(t, func() {
		err = On(d, "pointer", func(context.Context, *course.EnrollmentClosed) error { return nil })
	})
	assert.Error(t, err)

	require.NotPanics(t, func() {
		err = On(d, "any-event", func(context.Context, shared.DomainEvent) error { return nil })
	})
	assert.Error(t, err)

	assert.Equal(t, 0, d.HandlerCount(course.EventEnrollmentClosed))
}

func TestRegisterValidation(t *testing.T) {
	d := NewDispatcher(nil)
	h := NewLoggingHandler(nil)

	assert.Error(t, d.Register("", h))
	assert.Error(t, d.Register(course.EventCourseCreated, nil))
	require.NoError(t, d.Register(course.EventCourseCreated, h))
	assert.Error(t, d.Register(course.EventCourseCreated, h), "duplicate handler name")

	d.Unregister(course.EventCourseCreated, h.Name())
	assert.Equal(t, 0, d.HandlerCount(course.EventCourseCreated))
}

func TestLoggingHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDispatcher(nil)
	require.NoError(t, SubscribeAll(d, NewLoggingHandler(zap.New(core)),
		course.EventCourseCreated, course.EventStudentEnrolled, course.EventEnrollmentClosed))

	d.DispatchAll(context.Background(), courseEvents(t, 1))

	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 3)
	assert.Equal(t, course.EventCourseCreated, entries[0].ContextMap()["event"])
}

func TestHistoryIsBounded(t *testing.T) {
	d := NewDispatcher(nil)
	event := courseEvents(t, 5)[0]
	for i := 0; i < maxHistory+10; i++ {
		d.Dispatch(context.Background(), event)
	}
	assert.Len(t, d.History(), maxHistory)
}
