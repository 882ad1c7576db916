package tags

import "errors"

// Sentinel errors returned by the tags service and repositories.
var (
	ErrNotFound      = errors.New("tag not found")
	ErrInvalidAction = errors.New("invalid validation action")
	ErrInvalidInput  = errors.New("invalid input")
)
