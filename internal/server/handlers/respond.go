package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/harulabs/mintgate/internal/errors"
)

// maxBodyBytes caps JSON request bodies. Large allowlist pastes fit well
// inside this.
const maxBodyBytes = 1 << 20

var defaultHTTPErrorResponder = func(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}

var httpErrorResponder = defaultHTTPErrorResponder

// SetHTTPErrorResponder lets the server package inject its error handler.
func SetHTTPErrorResponder(responder func(http.ResponseWriter, *http.Request, error)) {
	if responder == nil {
		httpErrorResponder = defaultHTTPErrorResponder
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder.
func ResetHTTPErrorResponder() {
	httpErrorResponder = defaultHTTPErrorResponder
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a single JSON object from the request body. Malformed or
// oversized bodies become INVALID_INPUT envelopes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.WrapInvalidInput(r.Context(), err, "Request body is required")
		case errors.As(err, &maxErr):
			return apperrors.WrapInvalidInput(r.Context(), err, fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		default:
			return apperrors.WrapInvalidInput(r.Context(), err, "Request body is not valid JSON")
		}
	}
	return nil
}
