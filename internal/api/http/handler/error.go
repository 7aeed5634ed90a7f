package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tmorozova/daylist-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	respondJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps service errors to an HTTP status and a short
// machine-readable message. Storage errors never reach the caller; anything
// unrecognized collapses to a generic 500.
func errorStatus(err error) (int, string) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Msg
	}

	switch {
	case errors.Is(err, model.ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date format"
	case errors.Is(err, model.ErrPastDate):
		return http.StatusBadRequest, "Date cannot be in the past"
	case errors.Is(err, model.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, model.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "Todo not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
