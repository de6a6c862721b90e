package redis

import (
	"context"

	"message-api/internal/events"

	"github.com/redis/go-redis/v9"
)

var _ events.Sink = (*Publisher)(nil)

// Publisher fans message events out over Redis pub/sub so every API
// instance can forward them to its websocket clients.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}
