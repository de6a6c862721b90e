package repository

import (
	"fmt"

	"message-api/internal/domain/message"
	"message-api/internal/domain/user"

	"gorm.io/gorm"
)

// InitSchema handles the database schema migration.
// It runs Gorm auto-migration and creates the indexes AutoMigrate cannot express.
func InitSchema(db *gorm.DB) error {
	// 1. AutoMigrate Tables
	if err := db.AutoMigrate(
		&user.User{},
		&message.Message{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// 2. Constraints
	// messages.author must name an existing user. No cascade: removing a user
	// is not something this service does.
	constraints := []string{
		`DO $$ BEGIN
			ALTER TABLE messages ADD CONSTRAINT fk_messages_author
				FOREIGN KEY (author) REFERENCES users(id) ON DELETE NO ACTION;
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;`,
	}

	for _, c := range constraints {
		if err := db.Exec(c).Error; err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}

	// 3. Indexes
	// GIN (array_ops) serves the containment lookups on users.messages (@>).
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_messages ON users USING GIN (messages);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at, id);`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Tables lists the tables owned by this service, in truncation order.
func Tables() []string {
	return []string{"messages", "users"}
}
