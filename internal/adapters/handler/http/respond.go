package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pollwise/api/internal/core/domain"
)

// envelope is the only shape callers ever see: data on success, a
// field-keyed error tree on failure.
type envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Errors  domain.FieldErrors `json:"errors,omitempty"`
}

const genericErrorMessage = "An unexpected error occurred. Please try again."

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFieldErrors(w http.ResponseWriter, status int, errs domain.FieldErrors) {
	writeJSON(w, status, envelope{Success: false, Errors: errs})
}

// writeError maps domain errors to HTTP statuses and user-facing copy.
// Anything unrecognized collapses to the generic message; the detail has
// already been logged by the service layer.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFieldErrors(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeFieldErrors(w, http.StatusUnauthorized, domain.RootErrors("You must be logged in to perform this action"))
	case errors.Is(err, domain.ErrPollNotOwned):
		// Missing and foreign polls share one message and status.
		writeFieldErrors(w, http.StatusNotFound, domain.RootErrors("Poll not found or you do not have permission to edit it"))
	case errors.Is(err, domain.ErrPollNotFound):
		writeFieldErrors(w, http.StatusNotFound, domain.RootErrors("Poll not found"))
	case errors.Is(err, domain.ErrInvalidOption):
		writeFieldErrors(w, http.StatusBadRequest, domain.RootErrors("Invalid option for this poll"))
	case errors.Is(err, domain.ErrAlreadyVoted):
		writeFieldErrors(w, http.StatusConflict, domain.RootErrors("You have already voted on this poll"))
	default:
		writeFieldErrors(w, http.StatusInternalServerError, domain.RootErrors(genericErrorMessage))
	}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding an envelope cannot realistically fail; headers are gone anyway.
	_ = json.NewEncoder(w).Encode(body)
}
