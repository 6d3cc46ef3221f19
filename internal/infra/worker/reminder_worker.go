package worker

import (
	"context"
	"log"
	"time"

	"github.com/salespipe/crm-backend/internal/usecase"
)

// ReminderWorker drives the reminder sweep on a fixed interval in
// self-hosted mode. Hosted deployments hit the cron endpoint instead;
// both paths converge on the same idempotent usecase.
type ReminderWorker struct {
	reminders    *usecase.ReminderUseCase
	tickInterval time.Duration
}

func NewReminderWorker(reminders *usecase.ReminderUseCase) *ReminderWorker {
	return &ReminderWorker{
		reminders:    reminders,
		tickInterval: 1 * time.Minute,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	log.Println("[REMINDER] worker started (1m interval)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[REMINDER] worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReminderWorker) sweep(ctx context.Context) {
	fired, err := w.reminders.CheckAndSendReminders(ctx, time.Now())
	if err != nil {
		log.Printf("[REMINDER] sweep failed: %v", err)
		return
	}
	if fired > 0 {
		log.Printf("[REMINDER] %d reminder(s) fired", fired)
	}
}
