// Package server provides the HTTP REST API for the job matcher.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrCandidateNotFound indicates the requested candidate does not exist
type ErrCandidateNotFound struct {
	CandidateID uuid.UUID
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.CandidateID)
}

// ErrLocationRequired indicates the candidate profile has neither
// coordinates nor a location string. Matching never proceeds without some
// location signal.
type ErrLocationRequired struct{}

func (e *ErrLocationRequired) Error() string {
	return "candidate profile has no location; add a location to get matches"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrCandidateNotFound:
		return http.StatusNotFound
	case *ErrLocationRequired, *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
