package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher delivers message events to interested listeners.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Sink moves a raw payload onto a named channel. Implemented by the Redis
// publisher and by the websocket hub.
type Sink interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type ChannelPublisher struct {
	sink     Sink
	resolver ChannelResolver
}

func NewChannelPublisher(sink Sink, resolver ChannelResolver) *ChannelPublisher {
	if resolver == nil {
		resolver = NewFeedChannelResolver()
	}
	return &ChannelPublisher{sink: sink, resolver: resolver}
}

func (p *ChannelPublisher) Publish(ctx context.Context, env Envelope) error {
	channels := p.resolver.ResolveChannels(env)
	if len(channels) == 0 {
		return nil
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for _, channel := range channels {
		if err := p.sink.Publish(ctx, channel, data); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", channel, err)
		}
	}
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }
