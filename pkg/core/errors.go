package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors.
var (
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("access to record denied")
	ErrEmptySubject     = errors.New("subject cannot be empty")
	ErrInvalidID        = errors.New("record id must be positive")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrUnsupportedValue = errors.New("unsupported value: only strings, numbers and null are allowed")
)

// Phase names the logical step that issued a remote request.
type Phase string

const (
	PhaseCreate Phase = "create"
	PhaseLock   Phase = "lock"
	PhaseList   Phase = "list"
	PhaseGet    Phase = "get"
	PhaseUpdate Phase = "update"
	PhaseDelete Phase = "delete"
)

// RequestError reports a failed round trip with the tracker.
// Status is the HTTP status of a non-success response, or 0 when the request
// never produced one (Err then holds the transport failure).
type RequestError struct {
	Status int
	Phase  Phase
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s request failed with %d", e.Phase, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is maps well-known statuses onto the sentinel errors, so callers can test
// errors.Is(err, core.ErrNotFound) without inspecting the status.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound || e.Status == http.StatusGone
	case ErrForbidden:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// DecodeError reports a record whose body is not a JSON object of scalars.
type DecodeError struct {
	ID  int
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode record %d: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsPhase reports whether err is a RequestError issued by the given phase.
func IsPhase(err error, phase Phase) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Phase == phase
}
