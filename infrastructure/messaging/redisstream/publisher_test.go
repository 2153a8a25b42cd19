package redisstream

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewPublisherValidation(t *testing.T) {
	_, client := newTestClient(t)
	_, err := NewPublisher(nil, "events", 0)
	assert.Error(t, err)
	_, err = NewPublisher(client, "", 0)
	assert.Error(t, err)
}

func TestPublishAppendsEntries(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	publisher, err := NewPublisher(client, "ddd-course.events", 1000)
	require.NoError(t, err)
	require.NoError(t, publisher.Ping(ctx))

	require.NoError(t, publisher.Publish(ctx, "course.created", `{"event_name":"course.created"}`))
	require.NoError(t, publisher.Publish(ctx, "course.student_enrolled", `{"event_name":"course.student_enrolled"}`))

	entries, err := client.XRange(ctx, "ddd-course.events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "course.created", entries[0].Values[FieldEventType])
	assert.Equal(t, `{"event_name":"course.student_enrolled"}`, entries[1].Values[FieldPayload])
}

func TestPublishFailsWhenServerIsDown(t *testing.T) {
	mr, client := newTestClient(t)
	publisher, err := NewPublisher(client, "events", 0)
	require.NoError(t, err)

	mr.Close()
	assert.Error(t, publisher.Publish(context.Background(), "course.created", "{}"))
}
