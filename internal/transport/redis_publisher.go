package transport

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// RedisPublisher publishes messages via XADD.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher on the given client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish JSON-encodes payload and appends it to the stream. The returned
// string is the Redis entry ID assigned to the message.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: string(body)},
	}).Result()
	if err != nil {
		return "", apperrors.NewTransportError(err)
	}
	return id, nil
}
