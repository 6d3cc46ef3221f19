package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

type InvoiceHandler struct {
	Invoices *usecase.InvoiceUseCase
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.InvoiceInput
	if !decodeBody(w, r, &input) {
		return
	}
	inv, err := h.Invoices.Create(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	inv, err := h.Invoices.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	limit, offset := pagination(r)
	items, err := h.Invoices.List(r.Context(), identity, limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.InvoiceInput
	if !decodeBody(w, r, &input) {
		return
	}
	inv, err := h.Invoices.Update(r.Context(), identity, chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (h *InvoiceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var req invoiceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Invoices.SetStatus(r.Context(), identity, chi.URLParam(r, "id"), entity.InvoiceStatus(req.Status)); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Invoice status updated")
}
