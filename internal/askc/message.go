package askc

import (
	"time"

	"github.com/google/uuid"
)

// Origin tells who authored a message.
type Origin string

const (
	User Origin = "user"
	Bot  Origin = "bot"
)

// Label returns the display label for the origin.
func (o Origin) Label() string {
	if o == User {
		return "You"
	}
	return "Bot"
}

// Message is a single transcript entry. It is never mutated after creation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a message with a fresh ID
func NewMessage(text string, origin Origin) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Origin:    origin,
		CreatedAt: time.Now(),
	}
}

// IsUser reports whether the message was authored by the user.
func (m Message) IsUser() bool {
	return m.Origin == User
}
