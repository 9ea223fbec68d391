package identity

import (
	"github.com/agencia/backend/internal/domain/shared"
)

// Event types for the user aggregate
const (
	EventTypeUserCreated = "user.created"
)

// UserCreatedEvent is emitted when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewUserCreatedEvent creates a UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, "User", u.ID),
		Username:        u.Username,
		Role:            u.Role,
	}
}
