package httpdto

import "message-api/internal/domain/message"

const (
	MessageDeleted      = "Successfully deleted."
	MessageDoesNotExist = "Message does not exist."
)

type CreateMessageRequest struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

// UpdateMessageRequest only exposes the mutable fields; anything else in the
// body (author, _id) is ignored.
type UpdateMessageRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (r UpdateMessageRequest) ToUpdate() message.Update {
	return message.Update{Title: r.Title, Body: r.Body}
}

type MessageListResponse struct {
	Messages []message.Message `json:"messages"`
}

type MessageResponse struct {
	Message message.Message `json:"message"`
}

// NoticeResponse is the {"message": "..."} body of delete and not-found replies.
type NoticeResponse struct {
	Message string `json:"message"`
	ID      string `json:"_id,omitempty"`
}
