package shared

import (
	"encoding/json"
	"errors"
	"net/http"
)

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// RespondError maps domain sentinel errors onto HTTP statuses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, ErrForbidden):
		RespondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, ErrInvalidCredentials):
		RespondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, ErrConflict):
		RespondJSON(w, http.StatusConflict, errorBody{Error: "conflict"})
	case errors.Is(err, ErrUnknownPermission):
		RespondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		RespondJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

// RespondValidation writes field-level validation errors as a 400.
func RespondValidation(w http.ResponseWriter, fields map[string]string) {
	RespondJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
}
