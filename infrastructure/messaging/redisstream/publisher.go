/*
Package redisstream publishes outbox events to a Redis stream.

Each event becomes one stream entry with the fields event_type and payload, so
consumers can filter on the type without decoding the JSON envelope.
*/
package redisstream

import (
	"context"
	"errors"
	"fmt"

	"ddd-course/config"

	"github.com/redis/go-redis/v9"
)

const (
	FieldEventType = "event_type"
	FieldPayload   = "payload"
)

// Publisher XADDs events to one stream, trimming it approximately to maxLen
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewPublisher wraps an existing client; maxLen <= 0 disables trimming
func NewPublisher(client *redis.Client, stream string, maxLen int64) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if stream == "" {
		return nil, errors.New("stream name is required")
	}
	return &Publisher{client: client, stream: stream, maxLen: maxLen}, nil
}

// NewClient creates a client from the redis config section
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Publish appends one entry; implements the outbox publisher contract
func (p *Publisher) Publish(ctx context.Context, eventType, payload string) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			FieldEventType: eventType,
			FieldPayload:   payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Ping checks connectivity, used by the readiness probe
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the client
func (p *Publisher) Close() error {
	return p.client.Close()
}
