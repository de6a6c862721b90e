package events

import (
	"encoding/json"
	"time"

	"message-api/internal/domain/message"
)

// Event type constants. These follow the format: domain.action
const (
	EventTypeMessageCreated = "message.created"
	EventTypeMessageUpdated = "message.updated"
	EventTypeMessageDeleted = "message.deleted"
)

const AggregateTypeMessage = "message"

type Envelope struct {
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	AuthorID      string          `json:"author_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewMessageEnvelope wraps m as the payload of an event of the given type.
func NewMessageEnvelope(eventType string, m message.Message) (Envelope, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventType:     eventType,
		AggregateType: AggregateTypeMessage,
		AggregateID:   m.ID,
		AuthorID:      m.Author,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}, nil
}
