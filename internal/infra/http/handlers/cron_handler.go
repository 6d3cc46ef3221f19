package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// CronHandler is the external-scheduler entry point for hosted
// deployments without a resident worker. Authenticated by a shared
// secret header, not by user session.
type CronHandler struct {
	Reminders *usecase.ReminderUseCase
	Secret    string
}

type cronReminderResponse struct {
	Fired int `json:"fired"`
}

func (h *CronHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Cron-Secret")), []byte(h.Secret)) != 1 {
		writeMessage(w, http.StatusUnauthorized, "Invalid cron secret")
		return
	}

	fired, err := h.Reminders.CheckAndSendReminders(r.Context(), time.Now())
	if err != nil {
		handleError(w, err)
		return
	}
	if fired > 0 {
		middleware.RecordRemindersFired(fired)
	}
	writeJSON(w, http.StatusOK, cronReminderResponse{Fired: fired})
}
