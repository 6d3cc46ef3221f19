package usecase

import (
	"context"
	"log"

	"github.com/salespipe/crm-backend/internal/entity"
)

type NotificationUseCase struct {
	Notifications entity.NotificationRepository
	Dispatcher    Dispatcher
}

// Emit hands a notification to the side channel. Delivery is
// best-effort by contract: the triggering business operation has
// already committed and must not observe a failure here.
func (uc *NotificationUseCase) Emit(ctx context.Context, userID, message string, leadID *string) {
	if err := uc.Dispatcher.DispatchNotification(ctx, userID, message, leadID); err != nil {
		log.Printf("[NOTIFY] dispatch failed for user %s: %v", userID, err)
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]entity.Notification, error) {
	return uc.Notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead flips a single notification, scoped to its owner. Zero rows
// affected means missing or foreign, and both read as not found.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	affected, err := uc.Notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("Notification not found")
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.Notifications.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) Delete(ctx context.Context, id, userID string) error {
	affected, err := uc.Notifications.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("Notification not found")
	}
	return nil
}
