package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// ActivityHandler serves meetings and calls. The two share one table
// and one usecase; the route decides the kind.
type ActivityHandler struct {
	Activities *usecase.ActivityUseCase
}

func (h *ActivityHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, entity.ActivityMeeting)
}

func (h *ActivityHandler) CreateCall(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, entity.ActivityCall)
}

func (h *ActivityHandler) create(w http.ResponseWriter, r *http.Request, kind entity.ActivityKind) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.CreateActivityInput
	if !decodeBody(w, r, &input) {
		return
	}
	activity, err := h.Activities.Create(r.Context(), identity, kind, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, entity.ActivityMeeting)
}

func (h *ActivityHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, entity.ActivityCall)
}

func (h *ActivityHandler) list(w http.ResponseWriter, r *http.Request, kind entity.ActivityKind) {
	identity, _ := middleware.IdentityFrom(r.Context())
	f := entity.ActivityFilter{
		Kind:   kind,
		LeadID: r.URL.Query().Get("lead_id"),
	}
	f.Limit, f.Offset = pagination(r)

	items, err := h.Activities.List(r.Context(), identity, f)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.Activities.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Activity deleted")
}

func (h *ActivityHandler) LogEmail(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.LogEmailInput
	if !decodeBody(w, r, &input) {
		return
	}
	entry, err := h.Activities.LogEmail(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ActivityHandler) ListEmails(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	limit, offset := pagination(r)
	items, err := h.Activities.ListEmails(r.Context(), identity, r.URL.Query().Get("lead_id"), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
