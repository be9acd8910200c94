package document

import (
	"errors"
	"fmt"
)

// Common document parsing errors
var (
	// ErrEmptyDocument is returned when the file has no pages or no bytes at all.
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrInvalidDocument is returned when the bytes are not a parseable PDF.
	ErrInvalidDocument = errors.New("invalid or corrupted PDF document")
)

// DocumentError wraps errors with context about which parsing step failed.
type DocumentError struct {
	// Op is the operation that failed (e.g., "Load").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("document: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("document: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDocumentError creates a new DocumentError with the specified operation and underlying error.
func NewDocumentError(op string, err error, details string) *DocumentError {
	return &DocumentError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapDocumentError wraps an error as a DocumentError if it isn't already one.
func WrapDocumentError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return err // Already wrapped
	}

	return NewDocumentError(op, err, details)
}
