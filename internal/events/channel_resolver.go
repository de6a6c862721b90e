package events

import "fmt"

const (
	ChannelPrefix   = "channel:"
	MessagesChannel = "channel:messages"
)

// UserChannel is the channel carrying events for messages authored by userID.
func UserChannel(userID string) string {
	return fmt.Sprintf("channel:user:%s", userID)
}

// ChannelResolver determines which channels an event is published to
type ChannelResolver interface {
	ResolveChannels(env Envelope) []string
}

// FeedChannelResolver routes every event to the global feed and, when the
// author is known, to the author's channel.
type FeedChannelResolver struct{}

func NewFeedChannelResolver() *FeedChannelResolver {
	return &FeedChannelResolver{}
}

func (r *FeedChannelResolver) ResolveChannels(env Envelope) []string {
	channels := []string{MessagesChannel}
	if env.AuthorID != "" {
		channels = append(channels, UserChannel(env.AuthorID))
	}
	return channels
}
