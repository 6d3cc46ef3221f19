package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
)

type ReminderUseCase struct {
	Activities entity.ActivityRepository
	Dispatcher Dispatcher
}

// CheckAndSendReminders is the single reminder operation shared by the
// in-process ticker and the cron endpoint. The repository claims due
// rows by flipping reminder_sent in the same statement that selects
// them, so overlapping invocations cannot fire a reminder twice. Each
// claimed activity produces exactly one notification to its owner.
func (uc *ReminderUseCase) CheckAndSendReminders(ctx context.Context, now time.Time) (int, error) {
	claimed, err := uc.Activities.ClaimDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, a := range claimed {
		msg := reminderMessage(&a)
		if err := uc.Dispatcher.DispatchNotification(ctx, a.OwnerID, msg, a.LeadID); err != nil {
			// The row is already claimed; losing the notification here is
			// the accepted best-effort trade, double-firing is not.
			log.Printf("[REMINDER] notification dispatch failed for activity %s: %v", a.ID, err)
		}
	}
	return len(claimed), nil
}

func reminderMessage(a *entity.Activity) string {
	kind := strings.ToLower(string(a.Kind))
	return fmt.Sprintf("Reminder: %s %q starts at %s", kind, a.Title, a.StartTime.Format("02 Jan 2006 15:04"))
}
