package chat

import "errors"

// Sentinel errors returned by the chat service and repositories.
var (
	// ErrNotFound is returned for conversations that do not exist or are
	// not owned by the requesting user.
	ErrNotFound = errors.New("conversation not found")
	// ErrEmptyMessage is returned when the message body is missing.
	ErrEmptyMessage = errors.New("message is required")
	// ErrMessageTooLong is returned when the message exceeds MaxMessageLen.
	ErrMessageTooLong = errors.New("message exceeds maximum length")
	// ErrInvalidInput is returned for malformed identifiers or personas.
	ErrInvalidInput = errors.New("invalid input")
)
