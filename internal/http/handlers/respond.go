package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
)

const maxBodyBytes = 1 << 20

// respondWithJSON sends v with the given status.
func respondWithJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]any{"error": message})
}

// respondWithAppError maps err to its status. Unclassified errors are logged
// and reported with a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok {
		log.Error(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if e.Kind == apperr.KindInternal || e.Kind == apperr.KindUnavailable {
		log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	respondWithError(w, e.StatusCode(), e.Message)
}

// decodeJSON reads a request body into dst. Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation(fmt.Sprintf("invalid request body: %v", err))
	}
	if dec.More() {
		return apperr.Validation("invalid request body: unexpected data after JSON object")
	}
	return nil
}
