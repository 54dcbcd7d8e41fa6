package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from API response codes.
// Use errors.Is() to check.
var (
	ErrStackNotFound      = errors.New("stack not found")
	ErrStackAlreadyExists = errors.New("stack already exists")
	ErrRevisionConflict   = errors.New("revision conflict")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
)

// APIError carries the raw error response from the server.
// It wraps the matching sentinel, so errors.Is() works on both.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// CurrentRevision is set on revision conflicts.
	CurrentRevision int

	sentinel error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aossindex: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func sentinelForCode(code string, statusCode int) error {
	switch code {
	case "stack_not_found":
		return ErrStackNotFound
	case "stack_already_exists":
		return ErrStackAlreadyExists
	case "revision_conflict":
		return ErrRevisionConflict
	case "validation_failed", "bad_request":
		return ErrValidation
	}
	if statusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}
