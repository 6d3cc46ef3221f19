package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/salespipe/crm-backend/internal/usecase"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// handleError maps domain errors onto their HTTP status. Anything that
// is not a DomainError is an infrastructure failure: log it, hide it.
func handleError(w http.ResponseWriter, err error) {
	if domainErr, ok := usecase.AsDomainError(err); ok {
		writeMessage(w, statusFor(domainErr.Code), domainErr.Message)
		return
	}
	log.Printf("[HTTP] internal error: %v", err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeUnauthenticated:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	case usecase.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}
