package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"message-api/internal/domain/user"
	"message-api/internal/repository"
	api_errors "message-api/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) GetByID(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("get user %q: %w", id, err)
	}
	return u, nil
}

// CreateUserInput is used by the seeding command; the HTTP API does not create users.
type CreateUserInput struct {
	ID       string
	Username string
	Password string
}

// Register creates a user with a bcrypt-hashed password. An existing user
// with the same username is returned unchanged.
func (s *UserService) Register(ctx context.Context, in CreateUserInput) (user.User, bool, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return user.User{}, false, fmt.Errorf("username and password are required: %w", api_errors.ErrInvalidInput)
	}

	existing, err := s.store.Users().GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, api_errors.ErrNotFound) {
		return user.User{}, false, fmt.Errorf("lookup user %q: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, false, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:       strings.TrimSpace(in.ID),
		Username: username,
		Password: string(hash),
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.store.Users().Create(ctx, &u); err != nil {
		return user.User{}, false, fmt.Errorf("create user %q: %w", username, err)
	}
	return u, true, nil
}
