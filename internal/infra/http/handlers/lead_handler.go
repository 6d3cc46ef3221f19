package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

type LeadHandler struct {
	Leads     *usecase.LeadUseCase
	Kanban    *usecase.KanbanUseCase
	Dashboard *usecase.DashboardUseCase
	Export    *usecase.ExportUseCase
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.CreateLeadInput
	if !decodeBody(w, r, &input) {
		return
	}
	lead, err := h.Leads.Create(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	lead, err := h.Leads.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	leads, err := h.Leads.List(r.Context(), identity, leadFilterFrom(r))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.UpdateLeadInput
	if !decodeBody(w, r, &input) {
		return
	}
	lead, err := h.Leads.Update(r.Context(), identity, chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type moveStageRequest struct {
	Stage string `json:"stage"`
}

func (h *LeadHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var req moveStageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lead, err := h.Leads.MoveStage(r.Context(), identity, chi.URLParam(r, "id"), entity.Stage(req.Stage))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var req setStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lead, err := h.Leads.SetStatus(r.Context(), identity, chi.URLParam(r, "id"), entity.LeadStatus(req.Status))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.Leads.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Lead deleted")
}

func (h *LeadHandler) Board(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	board, err := h.Kanban.Execute(r.Context(), identity, leadFilterFrom(r))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *LeadHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	metrics, err := h.Dashboard.Metrics(r.Context(), identity, leadFilterFrom(r))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// ExportReport streams the lead report in the requested format.
// ?format=csv|pdf, defaulting to csv.
func (h *LeadHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	result, err := h.Export.Execute(r.Context(), identity, format, leadFilterFrom(r))
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Body)
}
