package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeUnauthenticated   = "UNAUTHENTICATED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUpstreamFailure   = "UPSTREAM_FAILURE"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// Sentinel errors returned by the domain layer. Handlers translate them
// to HTTP responses with WriteDomainError.
var (
	ErrUnauthenticated = errors.New("no authenticated principal")
	ErrUnauthorized    = errors.New("no access to this organization")
	ErrForbidden       = errors.New("admin role required")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUpstream        = errors.New("upstream service failure")
)

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// WriteDomainError maps a domain sentinel error to its HTTP representation.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, err.Error(), nil)
	case errors.Is(err, ErrUnauthorized):
		WriteError(w, http.StatusForbidden, ErrCodeUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		WriteError(w, http.StatusForbidden, ErrCodeForbidden, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error(), nil)
	case errors.Is(err, ErrUpstream):
		WriteError(w, http.StatusBadGateway, ErrCodeUpstreamFailure, err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}

// Is re-exports errors.Is so callers of this package do not need to
// import both error packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
