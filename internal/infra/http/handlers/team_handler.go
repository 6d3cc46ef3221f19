package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// TeamHandler is mounted behind RequireAdmin.
type TeamHandler struct {
	Team  *usecase.TeamUseCase
	Audit *usecase.AuditUseCase
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Team.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.InviteInput
	if !decodeBody(w, r, &input) {
		return
	}
	user, err := h.Team.Invite(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *TeamHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var req changeRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Team.ChangeRole(r.Context(), identity, chi.URLParam(r, "id"), req.Role); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Role updated")
}

func (h *TeamHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.Team.Deactivate(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deactivated")
}

func (h *TeamHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	entries, err := h.Audit.List(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
