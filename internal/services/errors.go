package services

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorKind classifies auth failures so the transport layer can map them to a
// status family without string matching.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindLocked            ErrorKind = "locked"
	KindValidation        ErrorKind = "validation"
	KindInternal          ErrorKind = "internal"
)

// Error is the single error type propagated by auth service operations.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`

	// RemainingAttempts is populated on failed logins before lockout so the
	// user can self-correct.
	RemainingAttempts int `json:"remainingAttempts,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidCredential, KindValidation:
		return http.StatusBadRequest
	case KindLocked:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "an internal error occurred: " + err.Error()}
}

// WriteError renders err as a JSON response. Non-*Error values are treated as
// internal faults.
func WriteError(w http.ResponseWriter, err error) {
	var authErr *Error
	if !errors.As(err, &authErr) {
		authErr = &Error{Kind: KindInternal, Message: "an internal error occurred"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.HTTPStatus())
	json.NewEncoder(w).Encode(authErr)
}
