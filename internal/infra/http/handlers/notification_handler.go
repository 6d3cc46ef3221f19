package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

type NotificationHandler struct {
	Notifications *usecase.NotificationUseCase
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	limit, offset := pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.Notifications.List(r.Context(), identity.UserID, unreadOnly, limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked as read")
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	updated, err := h.Notifications.MarkAllRead(r.Context(), identity.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.Notifications.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}
