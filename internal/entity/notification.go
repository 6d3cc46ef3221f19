package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted in-app message. Created only by the
// emitter, mutated only to flip IsRead, deleted only by its owner.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LeadID    *string   `json:"lead_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotification(userID, message string, leadID *string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		LeadID:    leadID,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	// MarkRead returns the number of rows flipped; zero means the row is
	// missing or owned by someone else.
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
}
