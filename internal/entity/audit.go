package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditLog rows are written best-effort through the side channel and
// never block the operation they describe.
type AuditLog struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAuditLog(actorID, action, entityName, entityID, detail string) *AuditLog {
	return &AuditLog{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
}

type AuditLogRepository interface {
	Create(ctx context.Context, a *AuditLog) error
	List(ctx context.Context, limit, offset int) ([]AuditLog, error)
}
