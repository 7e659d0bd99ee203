package controllers

import (
	"errors"
	"net/http"
	"ponydiary/internal/models"

	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidDay),
		errors.Is(err, models.ErrVersionMismatch), errors.Is(err, models.ErrInvalidTheme):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrMalformedBundle):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrImportNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, models.ErrEmptyExport):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
