package message

import (
	"strings"
	"time"

	api_errors "message-api/pkg/errors"
)

// Message represents the messages table
type Message struct {
	ID        string    `json:"_id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	Author    string    `json:"author" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string { return "messages" }

// Validate checks the fields the store requires on insert.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.Title) == "":
		return fieldError("title")
	case strings.TrimSpace(m.Body) == "":
		return fieldError("body")
	case strings.TrimSpace(m.Author) == "":
		return fieldError("author")
	}
	return nil
}

// Update carries the fields settable on an existing message. Nil means unchanged.
type Update struct {
	Title *string
	Body  *string
}

// Columns returns the column/value pairs to write.
func (u Update) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 2)
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Body != nil {
		cols["body"] = *u.Body
	}
	return cols
}

// Empty reports whether the update sets nothing.
func (u Update) Empty() bool {
	return u.Title == nil && u.Body == nil
}

type validationError struct {
	field string
}

func fieldError(field string) error {
	return &validationError{field: field}
}

func (e *validationError) Error() string {
	return "message validation failed: " + e.field + " is required"
}

func (e *validationError) Unwrap() error {
	return api_errors.ErrInvalidInput
}
