package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salespipe/crm-backend/internal/usecase"
)

type LabelHandler struct {
	Labels *usecase.LabelUseCase
}

func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LabelInput
	if !decodeBody(w, r, &input) {
		return
	}
	label, err := h.Labels.Create(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	labels, err := h.Labels.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Labels.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Label deleted")
}
