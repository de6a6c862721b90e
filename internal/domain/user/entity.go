package user

import (
	"time"

	"github.com/lib/pq"
)

// User represents the users table.
// Messages holds message ids, newest first.
type User struct {
	ID        string         `json:"_id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"not null"`
	Messages  pq.StringArray `json:"messages" gorm:"type:text[];not null;default:'{}'"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PrependMessage puts messageID at the front of the list.
func (u *User) PrependMessage(messageID string) {
	u.Messages = append(pq.StringArray{messageID}, u.Messages...)
}

// RemoveMessage drops every occurrence of messageID and reports whether any was found.
func (u *User) RemoveMessage(messageID string) bool {
	kept := u.Messages[:0]
	removed := false
	for _, id := range u.Messages {
		if id == messageID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	u.Messages = kept
	return removed
}
