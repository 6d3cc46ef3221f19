package queue

import (
	"context"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// SyncDispatcher is the no-broker fallback: same best-effort contract
// as the producer, but the writes happen inline. Used when RABBITMQ_URL
// is not configured.
type SyncDispatcher struct {
	Notifications entity.NotificationRepository
	Audits        entity.AuditLogRepository
	Mailer        usecase.Mailer
}

func NewSyncDispatcher(notifications entity.NotificationRepository, audits entity.AuditLogRepository, mailer usecase.Mailer) *SyncDispatcher {
	return &SyncDispatcher{
		Notifications: notifications,
		Audits:        audits,
		Mailer:        mailer,
	}
}

func (d *SyncDispatcher) DispatchNotification(ctx context.Context, userID, message string, leadID *string) error {
	return d.Notifications.Create(ctx, entity.NewNotification(userID, message, leadID))
}

func (d *SyncDispatcher) DispatchAudit(ctx context.Context, actorID, action, entityName, entityID, detail string) error {
	return d.Audits.Create(ctx, entity.NewAuditLog(actorID, action, entityName, entityID, detail))
}

func (d *SyncDispatcher) DispatchEmail(ctx context.Context, to, subject, body string) error {
	return d.Mailer.Send(to, subject, body)
}
