package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated EventType = "user_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserCreated builds the event for a freshly stored user.
func NewUserCreated(user *domain.User) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventUserCreated,
		UserID:    user.ID,
		Timestamp: time.Now().UTC(),
		Payload: UserCreatedPayload{
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
	}
}
