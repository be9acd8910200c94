package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrEmptyQuery is returned when a target name normalizes to nothing. An
	// empty normalized query is a substring of everything and would match
	// every row in the document.
	ErrEmptyQuery = errors.New("target name normalizes to an empty query")

	// ErrNoMatches is returned when a document holds no extractable data.
	// This is the ordinary outcome for a document missing the requested
	// content, not a failure; batch callers log it and continue.
	ErrNoMatches = errors.New("no matching data found in document")

	// ErrNoRecords is returned when aggregation is attempted over an empty
	// record set.
	ErrNoRecords = errors.New("no records to aggregate")
)

// ExtractError wraps errors with additional context about the extraction failure.
type ExtractError struct {
	// Op is the operation that failed (e.g., "ExtractTeacher").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractError creates a new ExtractError with the specified operation and underlying error.
func NewExtractError(op string, err error, details string) *ExtractError {
	return &ExtractError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapExtractError wraps an error as an ExtractError if it isn't already one.
func WrapExtractError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return err // Already wrapped
	}

	return NewExtractError(op, err, details)
}
