package repository

import (
	"context"
	"errors"

	"message-api/internal/domain/user"
	api_errors "message-api/pkg/errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Messages == nil {
		u.Messages = pq.StringArray{}
	}
	res := r.db.WithContext(ctx).Create(u)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return api_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, api_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, api_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// PrependMessage is a single UPDATE so concurrent prepends for the same user
// serialise on the row lock instead of overwriting each other.
func (r *PostgresUserRepository) PrependMessage(ctx context.Context, userID, messageID string) error {
	res := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", userID).
		Update("messages", gorm.Expr("array_prepend(?::text, messages)", messageID))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return api_errors.ErrNotFound
	}
	return nil
}

// PullMessage uses array containment so the GIN index on users.messages
// serves the lookup.
func (r *PostgresUserRepository) PullMessage(ctx context.Context, messageID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("messages @> ARRAY[?]::text[]", messageID).
		Update("messages", gorm.Expr("array_remove(messages, ?::text)", messageID))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
