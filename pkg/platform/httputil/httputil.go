// Package httputil provides JSON response and request-decoding helpers
// shared by all HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps err to an HTTP status via its domain error code and
// writes the standard error body. Internal errors omit the description so
// storage details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != domainerrors.CodeInternal {
		var de *domainerrors.DomainError
		if errors.As(err, &de) {
			body.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, domainerrors.ToHTTPStatus(code), body)
}

// Decode reads the request body into T. On malformed JSON it writes an
// invalid_request error and reports false; the handler should return.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.InfoContext(r.Context(), "request body rejected", "error", err)
		WriteError(w, domainerrors.New(domainerrors.CodeInvalidRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}
