package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/askc/internal/askc"
)

// Record is a saved transcript
type Record struct {
	ID       string         `json:"id"`       // UUID v4
	Name     string         `json:"name"`     // Optional name (empty by default)
	Endpoint string         `json:"endpoint"` // Answer service the questions went to
	SavedAt  time.Time      `json:"saved_at"`
	Messages []askc.Message `json:"messages"`
}

// NewRecord creates a record holding a copy of messages
func NewRecord(endpoint string, messages []askc.Message) *Record {
	return &Record{
		ID:       uuid.New().String(),
		Endpoint: endpoint,
		SavedAt:  time.Now(),
		Messages: append([]askc.Message(nil), messages...),
	}
}

// GetShortID returns the shortened record ID (first 8 characters)
func (r *Record) GetShortID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}

// GetDisplayName returns the name if set, otherwise the short ID
func (r *Record) GetDisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.GetShortID()
}

// MessageCount returns the number of messages in the record
func (r *Record) MessageCount() int {
	return len(r.Messages)
}

// QuestionCount returns the number of user messages in the record
func (r *Record) QuestionCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.IsUser() {
			n++
		}
	}
	return n
}
