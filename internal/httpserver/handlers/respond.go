package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON serializes v with the right headers. Encoding failures are
// ignored: the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP statuses. Validation
// and not-found are expected outcomes and are never logged as faults;
// everything else is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: verr.Error(),
			Field: verr.Field,
		})
		return
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found"})
		return
	}

	log.Error("request failed", logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeBody decodes a JSON request body, mapping malformed input to a
// ValidationError so the caller gets a 422 with a reason.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON payload"}
	}
	return nil
}
