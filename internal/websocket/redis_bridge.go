package websocket

import (
	"context"

	"message-api/internal/events"
)

// RedisBridge forwards payloads from the pub/sub subscriber into the hub.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.ChannelPrefix + "*"}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
