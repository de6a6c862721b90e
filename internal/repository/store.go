package repository

import (
	"context"

	"gorm.io/gorm"
)

type GormStore struct {
	db       *gorm.DB
	messages MessageRepository
	users    UserRepository
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		messages: NewMessageRepository(db),
		users:    NewUserRepository(db),
	}
}

func (s *GormStore) Messages() MessageRepository { return s.messages }

func (s *GormStore) Users() UserRepository { return s.users }

func (s *GormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
