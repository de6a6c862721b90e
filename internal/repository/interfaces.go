package repository

import (
	"context"

	"message-api/internal/domain/message"
	"message-api/internal/domain/user"
)

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetAll(ctx context.Context) ([]message.Message, error)
	GetByID(ctx context.Context, id string) (message.Message, error)
	UpdateFields(ctx context.Context, id string, u message.Update) error
	// Delete removes the message and returns it as it was stored.
	Delete(ctx context.Context, id string) (message.Message, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)

	// PrependMessage puts messageID at the front of the user's list.
	PrependMessage(ctx context.Context, userID, messageID string) error
	// PullMessage removes messageID from every list holding it and returns
	// the number of users touched.
	PullMessage(ctx context.Context, messageID string) (int64, error)
}

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Messages() MessageRepository
	Users() UserRepository
	// WithTx runs fn against repositories bound to a single transaction.
	// fn returning an error rolls the transaction back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
