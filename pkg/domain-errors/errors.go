// Package domainerrors defines the coded error taxonomy shared by services
// and the HTTP layer. Services return these; the transport layer maps codes
// to status codes without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are part of the wire contract:
// clients branch on them, so they are stable strings rather than messages.
type Code string

const (
	// CodeInvalidRequest marks requests missing required identity material
	// or carrying malformed payloads. Rejected before touching storage.
	CodeInvalidRequest Code = "invalid_request"
	// CodeDuplicateVote marks a vote from an identity that already holds a
	// vote record. Expected and frequent; not a system fault.
	CodeDuplicateVote Code = "duplicate_vote"
	// CodeNotFound marks references to programs that no longer exist,
	// typically a stale client view after an admin delete.
	CodeNotFound Code = "not_found"
	// CodeNoVoteFound marks a revoke attempt by an identity with no record.
	CodeNoVoteFound Code = "no_vote_found"
	// CodeUnauthorized marks failed admin authentication.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks storage or infrastructure faults. The request fails
	// whole; the server keeps serving.
	CodeInternal Code = "internal"
)

// DomainError couples a stable code with a human-readable message and an
// optional wrapped cause.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.cause }

// New creates a DomainError with the given code and message.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/errors.As chains.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a service.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its response status. Duplicate votes map to
// 403 rather than 409 to match the voter client's error handling.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeDuplicateVote:
		return http.StatusForbidden
	case CodeNotFound, CodeNoVoteFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
