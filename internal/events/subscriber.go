package events

import "context"

// Subscriber receives raw payloads published on the given channel patterns.
type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}
