package database

import (
	"context"
	"fmt"
	"log"

	"message-api/internal/domain/user"
	"message-api/internal/repository"
	"message-api/internal/services"

	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	UserID   string
	Username string
	Password string
}

// DefaultSeedConfig returns the sample user the API docs and tests refer to
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		UserID:   "aaaaaaaaaaaa",
		Username: "myuser",
		Password: "mypassword",
	}
}

// Seed creates the sample user if it does not exist yet
func Seed(ctx context.Context, db *gorm.DB, cfg *SeedConfig) (user.User, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	svc := services.NewUserService(repository.NewStore(db))
	u, created, err := svc.Register(ctx, services.CreateUserInput{
		ID:       cfg.UserID,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to seed user: %w", err)
	}

	if created {
		log.Printf("Created user %s (ID: %s)", u.Username, u.ID)
	} else {
		log.Printf("User %s already exists (ID: %s)", u.Username, u.ID)
	}
	return u, nil
}
