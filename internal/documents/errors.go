package documents

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a document does not exist or is not owned
	// by the caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput is returned for malformed service inputs.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries the individual reasons an upload was rejected.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
