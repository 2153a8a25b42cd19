package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/mysql/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err       error
	published []string
}

func (p *stubPublisher) Publish(_ context.Context, eventType, _ string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, eventType)
	return nil
}

func seedOutbox(t *testing.T, outbox *OutboxRepository) {
	t.Helper()
	c := newTestCourse(t, 1)
	require.NoError(t, c.EnrollStudent(shared.NewID()))
	require.NoError(t, outbox.SaveEvents(context.Background(), c.PullEvents()))
}

func TestNewOutboxWorker_Validation(t *testing.T) {
	outbox := NewOutboxRepository(openTestDB(t))
	_, err := NewOutboxWorker(nil, &stubPublisher{}, time.Second, 10, 3)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, nil, time.Second, 10, 3)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, &stubPublisher{}, 0, 10, 3)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, &stubPublisher{}, time.Second, 0, 3)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, &stubPublisher{}, time.Second, 10, 0)
	assert.Error(t, err)
}

func TestOutboxWorker_PublishesPendingEvents(t *testing.T) {
	ctx := context.Background()
	outbox := NewOutboxRepository(openTestDB(t))
	seedOutbox(t, outbox)

	publisher := &stubPublisher{}
	worker, err := NewOutboxWorker(outbox, publisher, time.Second, 10, 3)
	require.NoError(t, err)

	published, err := worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, published)
	assert.Len(t, publisher.published, 3)

	count, err := outbox.CountByStatus(ctx, po.EventStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// nothing left to publish
	published, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestOutboxWorker_FailedPublishIsRetriedThenParked(t *testing.T) {
	ctx := context.Background()
	outbox := NewOutboxRepository(openTestDB(t))
	seedOutbox(t, outbox)

	publisher := &stubPublisher{err: errors.New("broker down")}
	worker, err := NewOutboxWorker(outbox, publisher, time.Second, 10, 2)
	require.NoError(t, err)

	_, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	pending, err := outbox.CountByStatus(ctx, po.EventStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending, "first failure goes back to pending")

	_, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	failed, err := outbox.CountByStatus(ctx, po.EventStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), failed)
}

func TestOutboxWorker_RunStopsOnCancel(t *testing.T) {
	outbox := NewOutboxRepository(openTestDB(t))
	worker, err := NewOutboxWorker(outbox, &stubPublisher{}, 10*time.Millisecond, 10, 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
