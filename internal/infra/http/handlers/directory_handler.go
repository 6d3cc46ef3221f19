package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

// DirectoryHandler serves the shared address book: contacts and
// companies.
type DirectoryHandler struct {
	Directory *usecase.DirectoryUseCase
}

func (h *DirectoryHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.ContactInput
	if !decodeBody(w, r, &input) {
		return
	}
	contact, err := h.Directory.CreateContact(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (h *DirectoryHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Directory.GetContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *DirectoryHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	items, err := h.Directory.ListContacts(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DirectoryHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var input usecase.ContactInput
	if !decodeBody(w, r, &input) {
		return
	}
	contact, err := h.Directory.UpdateContact(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *DirectoryHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.Directory.DeleteContact(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Contact deleted")
}

func (h *DirectoryHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	var input usecase.CompanyInput
	if !decodeBody(w, r, &input) {
		return
	}
	company, err := h.Directory.CreateCompany(r.Context(), identity, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *DirectoryHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Directory.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *DirectoryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	items, err := h.Directory.ListCompanies(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DirectoryHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var input usecase.CompanyInput
	if !decodeBody(w, r, &input) {
		return
	}
	company, err := h.Directory.UpdateCompany(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *DirectoryHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.Directory.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Company deleted")
}
