package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"message-api/internal/domain/message"
	"message-api/internal/events"
	"message-api/internal/repository"
	api_errors "message-api/pkg/errors"
	"message-api/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *logger.Logger
	newID     func() string
}

func NewMessageService(store repository.Store, publisher events.Publisher, l *logger.Logger) *MessageService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{
		store:     store,
		publisher: publisher,
		logger:    l,
		newID:     uuid.NewString,
	}
}

// CreateMessageInput is the client-supplied part of a new message.
// ID is optional; one is generated when empty.
type CreateMessageInput struct {
	ID     string
	Title  string
	Body   string
	Author string
}

func (s *MessageService) List(ctx context.Context) ([]message.Message, error) {
	messages, err := s.store.Messages().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) Get(ctx context.Context, id string) (message.Message, error) {
	m, err := s.store.Messages().GetByID(ctx, id)
	if err != nil {
		return message.Message{}, fmt.Errorf("get message %q: %w", id, err)
	}
	return m, nil
}

// Create stores the message and prepends its id to the author's list in one
// transaction. An unknown author rolls both writes back.
func (s *MessageService) Create(ctx context.Context, in CreateMessageInput) (message.Message, error) {
	msg := message.Message{
		ID:     strings.TrimSpace(in.ID),
		Title:  in.Title,
		Body:   in.Body,
		Author: strings.TrimSpace(in.Author),
	}
	if msg.ID == "" {
		msg.ID = s.newID()
	}
	if err := msg.Validate(); err != nil {
		return message.Message{}, err
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Messages().Create(ctx, &msg); err != nil {
			return err
		}
		if err := tx.Users().PrependMessage(ctx, msg.Author, msg.ID); err != nil {
			if errors.Is(err, api_errors.ErrNotFound) {
				return fmt.Errorf("author %q does not exist: %w", msg.Author, api_errors.ErrInvalidReference)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return message.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, events.EventTypeMessageCreated, msg)
	return msg, nil
}

// Update sets title and/or body and returns the stored result.
func (s *MessageService) Update(ctx context.Context, id string, u message.Update) (message.Message, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return message.Message{}, fmt.Errorf("title cannot be blank: %w", api_errors.ErrInvalidInput)
	}
	if u.Body != nil && strings.TrimSpace(*u.Body) == "" {
		return message.Message{}, fmt.Errorf("body cannot be blank: %w", api_errors.ErrInvalidInput)
	}

	if err := s.store.Messages().UpdateFields(ctx, id, u); err != nil {
		return message.Message{}, fmt.Errorf("update message %q: %w", id, err)
	}
	m, err := s.store.Messages().GetByID(ctx, id)
	if err != nil {
		return message.Message{}, fmt.Errorf("update message %q: %w", id, err)
	}

	if !u.Empty() {
		s.publish(ctx, events.EventTypeMessageUpdated, m)
	}
	return m, nil
}

// Delete removes the message and pulls its id out of every user's list.
// Users themselves are never removed.
func (s *MessageService) Delete(ctx context.Context, id string) (message.Message, error) {
	var deleted message.Message
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		m, err := tx.Messages().Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = m
		_, err = tx.Users().PullMessage(ctx, id)
		return err
	})
	if err != nil {
		return message.Message{}, fmt.Errorf("delete message %q: %w", id, err)
	}

	s.publish(ctx, events.EventTypeMessageDeleted, deleted)
	return deleted, nil
}

// publish is best effort: the write has already committed.
func (s *MessageService) publish(ctx context.Context, eventType string, m message.Message) {
	env, err := events.NewMessageEnvelope(eventType, m)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.ErrorCtx(ctx, "failed to publish message event",
			zap.String("event_type", eventType),
			zap.String("message_id", m.ID),
			zap.Error(err),
		)
	}
}
