package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	// ErrCodeTransport covers DNS, connect, reset and timeout failures
	// before any HTTP status was received.
	ErrCodeTransport = "TRANSPORT_ERROR"

	// ErrCodeHTTPStatus covers non-2xx upstream responses.
	ErrCodeHTTPStatus = "HTTP_STATUS"

	// ErrCodeForbidden is the 403 sub-case of ErrCodeHTTPStatus. The
	// upstream serves anti-automation blocks as 403, so this code
	// carries a distinct diagnostic suggestion.
	ErrCodeForbidden = "UPSTREAM_FORBIDDEN"

	// ErrCodeStructureNotFound means the expected table or its rows
	// were absent from the fetched markup.
	ErrCodeStructureNotFound = "STRUCTURE_NOT_FOUND"

	// ErrCodeEmptyResult means the table was found but no well-formed
	// data rows survived filtering.
	ErrCodeEmptyResult = "EMPTY_RESULT"

	ErrCodeInternal = "INTERNAL_ERROR"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error

	// Suggestion is an optional remediation hint surfaced to API
	// callers, currently only set for upstream 403 responses.
	Suggestion string
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// AsScrapeError unwraps err to a *ScrapeError, falling back to an
// ErrCodeInternal wrapper so callers always get a coded error.
func AsScrapeError(err error) *ScrapeError {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return NewScrapeError(ErrCodeInternal, err.Error(), err)
}
