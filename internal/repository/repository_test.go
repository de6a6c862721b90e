package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"message-api/internal/domain/message"
	"message-api/internal/domain/user"
	api_errors "message-api/pkg/errors"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	sampleUserID     = "aaaaaaaaaaaa"
	sampleMessageID  = "bbbbbbbbbbbb"
	sampleMessage2ID = "cccccccccccc"
)

// openTestStore connects to TEST_DATABASE_DSN and seeds the sample user and
// message. Tests are skipped when no database is configured.
func openTestStore(t *testing.T) *GormStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))

	truncate := func() {
		for _, table := range Tables() {
			require.NoError(t, db.Exec("DELETE FROM "+table).Error)
		}
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := NewStore(db)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &user.User{
		ID:       sampleUserID,
		Username: "myuser",
		Password: "mypassword",
	}))
	require.NoError(t, store.Messages().Create(ctx, &message.Message{
		ID:     sampleMessageID,
		Title:  "Sample Message",
		Body:   "Sample Message Body",
		Author: sampleUserID,
	}))
	require.NoError(t, store.Users().PrependMessage(ctx, sampleUserID, sampleMessageID))
	return store
}

func TestMessageRepository_GetByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	m, err := store.Messages().GetByID(ctx, sampleMessageID)
	require.NoError(t, err)
	assert.Equal(t, "Sample Message", m.Title)
	assert.Equal(t, "Sample Message Body", m.Body)
	assert.Equal(t, sampleUserID, m.Author)

	_, err = store.Messages().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, api_errors.ErrNotFound)
}

func TestMessageRepository_CreateDuplicateAndBadAuthor(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Messages().Create(ctx, &message.Message{
		ID: sampleMessageID, Title: "t", Body: "b", Author: sampleUserID,
	})
	assert.ErrorIs(t, err, api_errors.ErrAlreadyExists)

	err = store.Messages().Create(ctx, &message.Message{
		ID: sampleMessage2ID, Title: "t", Body: "b", Author: "nobody",
	})
	assert.ErrorIs(t, err, api_errors.ErrInvalidReference)
}

func TestMessageRepository_UpdateFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	title := "Changed Sample Title"
	require.NoError(t, store.Messages().UpdateFields(ctx, sampleMessageID, message.Update{Title: &title}))

	m, err := store.Messages().GetByID(ctx, sampleMessageID)
	require.NoError(t, err)
	assert.Equal(t, title, m.Title)
	assert.Equal(t, "Sample Message Body", m.Body)

	err = store.Messages().UpdateFields(ctx, "missing", message.Update{Title: &title})
	assert.ErrorIs(t, err, api_errors.ErrNotFound)
}

func TestMessageRepository_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	deleted, err := store.Messages().Delete(ctx, sampleMessageID)
	require.NoError(t, err)
	assert.Equal(t, "Sample Message", deleted.Title)

	_, err = store.Messages().Delete(ctx, sampleMessageID)
	assert.ErrorIs(t, err, api_errors.ErrNotFound)
}

func TestUserRepository_PrependAndPull(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Messages().Create(ctx, &message.Message{
		ID: sampleMessage2ID, Title: "t", Body: "b", Author: sampleUserID,
	}))
	require.NoError(t, store.Users().PrependMessage(ctx, sampleUserID, sampleMessage2ID))

	u, err := store.Users().GetByID(ctx, sampleUserID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{sampleMessage2ID, sampleMessageID}, u.Messages)

	n, err := store.Users().PullMessage(ctx, sampleMessage2ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	u, err = store.Users().GetByID(ctx, sampleUserID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{sampleMessageID}, u.Messages)

	err = store.Users().PrependMessage(ctx, "nobody", sampleMessage2ID)
	assert.ErrorIs(t, err, api_errors.ErrNotFound)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx Store) error {
		if err := tx.Messages().Create(ctx, &message.Message{
			ID: sampleMessage2ID, Title: "t", Body: "b", Author: sampleUserID,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Messages().GetByID(ctx, sampleMessage2ID)
	assert.ErrorIs(t, err, api_errors.ErrNotFound)
}
